package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/lfarias/neomercado/internal/config"
	"github.com/lfarias/neomercado/internal/graph"
	"github.com/lfarias/neomercado/internal/menu"
	"github.com/lfarias/neomercado/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "neomercado",
		Usage: "console e-commerce manager backed by Neo4j",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("neomercado exited with error")
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	// A missing .env is fine; the environment itself may carry the settings.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	ctx := context.Background()

	executor, err := graph.NewNeo4jExecutor(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	if err != nil {
		return err
	}
	defer executor.Close(ctx)

	if err := executor.Verify(ctx); err != nil {
		return errors.Wrapf(err, "could not connect to database %q", cfg.Database)
	}
	log.WithField("database", cfg.Database).Info("Connected to Neo4j")

	if err := graph.EnsureSchema(ctx, executor); err != nil {
		return errors.Wrap(err, "ensure schema constraints")
	}

	m := menu.New(
		store.NewAccountManager(executor),
		store.NewCatalogManager(executor),
		store.NewOrderManager(executor),
		store.NewFavoriteManager(executor),
	)
	return m.Run(ctx)
}
