package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"demografia/adapters/censuscsv"
	"demografia/adapters/postgres"
	"demografia/app"
	"demografia/internal"
	"demografia/internal/config"
	"demografia/internal/errors"
	"demografia/ports"
	"demografia/ui"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var runs ports.RunRepository
	var probabilities ports.ProbabilityLoader = censuscsv.NewProbabilityLoader(cfg.Data.ProbabilitiesFile)
	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		runs = postgres.NewRunRepository(db)
		probabilities = postgres.NewProbabilitySource(postgres.NewProbabilityRepository(db), probabilities, logger)
		logger.Info("run persistence enabled")
	} else {
		logger.Info("DATABASE_URL unset; running without run persistence")
	}

	service, err := app.NewProjectionService(
		context.Background(),
		censuscsv.NewLoader(cfg.Data.Dir),
		probabilities,
		app.Options{Runs: runs, Logger: logger},
	)
	if err != nil {
		log.Fatalf("failed to load census data: %v", err)
	}

	httpApp := ui.NewApp(service, logger)
	if err := httpApp.Start(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initDatabase connects to PostgreSQL and ensures the schema exists.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}
