package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projection_runs (
			id UUID PRIMARY KEY,
			phenomenon TEXT NOT NULL,
			entity TEXT NOT NULL,
			sector TEXT NOT NULL,
			stratum TEXT NOT NULL,
			lag INTEGER NOT NULL DEFAULT 0,
			series JSONB NOT NULL,
			warnings JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projection_runs_created_at
			ON projection_runs (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS probabilities (
			entity TEXT NOT NULL,
			sector TEXT NOT NULL,
			stratum TEXT NOT NULL,
			year INTEGER NOT NULL,
			survivors DOUBLE PRECISION NOT NULL,
			births DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (entity, sector, stratum, year)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
