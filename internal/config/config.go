// Package config loads the Neo4j connection settings from the environment.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds the connection details for the Neo4j instance.
type Config struct {
	URI      string `envconfig:"NEO4J_URI" default:"neo4j://localhost:7687"`
	Username string `envconfig:"NEO4J_USERNAME" default:"neo4j"`
	Password string `envconfig:"NEO4J_PASSWORD" required:"true"`
	Database string `envconfig:"NEO4J_DATABASE" default:"neo4j"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
