package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"

	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	"github.com/ototamirci/backend/migrations"
	"github.com/ototamirci/backend/pkg/config"
)

func main() {
	var direction string
	var steps int

	flag.StringVar(&direction, "direction", "up", "up, down or version")
	flag.IntVar(&steps, "steps", 0, "number of migrations to apply (0 = all for up, 1 for down)")
	flag.Parse()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("ototamirci-migrate", cfg.Server.Env)
	logger := observability.GetLogger()

	// Setup DB
	pgClient, err := postgres.NewClient(context.Background(), &cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	m, err := migrations.New(pgClient.DB())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create migrator")
	}

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps <= 0 {
			steps = 1
		}
		err = m.Steps(-steps)
	case "version":
	default:
		logger.Error().Str("direction", direction).Msg("unknown direction")
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal().Err(err).Str("direction", direction).Msg("migration failed")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatal().Err(err).Msg("failed to read schema version")
	}
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
}
