package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults applied", func(t *testing.T) {
		t.Setenv("NEO4J_PASSWORD", "secret")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "neo4j://localhost:7687", cfg.URI)
		assert.Equal(t, "neo4j", cfg.Username)
		assert.Equal(t, "neo4j", cfg.Database)
		assert.Equal(t, "secret", cfg.Password)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("NEO4J_URI", "neo4j+s://example.databases.neo4j.io")
		t.Setenv("NEO4J_PASSWORD", "secret")
		t.Setenv("NEO4J_DATABASE", "shop")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "neo4j+s://example.databases.neo4j.io", cfg.URI)
		assert.Equal(t, "shop", cfg.Database)
	})

	t.Run("Password required", func(t *testing.T) {
		// t.Setenv registers the restore; the variable must be absent, not
		// merely empty, for envconfig to flag it.
		t.Setenv("NEO4J_PASSWORD", "placeholder")
		os.Unsetenv("NEO4J_PASSWORD")

		_, err := Load()
		assert.Error(t, err)
	})
}
