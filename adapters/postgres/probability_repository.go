package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"demografia/domain/demography"
	"demografia/ports"
)

// probabilityRepository implements ports.ProbabilityRepository on
// PostgreSQL, as a database-backed alternative to PROBABILIDADES.csv.
type probabilityRepository struct {
	db *sqlx.DB
}

// NewProbabilityRepository creates a probability repository.
func NewProbabilityRepository(db *sqlx.DB) ports.ProbabilityRepository {
	return &probabilityRepository{db: db}
}

// ReplaceAll swaps the stored table for the given one in a transaction.
func (r *probabilityRepository) ReplaceAll(ctx context.Context, table demography.ProbabilityTable) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM probabilities`); err != nil {
		return fmt.Errorf("failed to clear probabilities: %w", err)
	}

	query := `INSERT INTO probabilities (entity, sector, stratum, year, survivors, births)
	VALUES ($1, $2, $3, $4, $5, $6)`
	for key, p := range table {
		if _, err := tx.ExecContext(ctx, query,
			key.Entity, key.Sector, key.Stratum, key.Year, p.Survivors, p.Births,
		); err != nil {
			return fmt.Errorf("failed to insert probability row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit probabilities: %w", err)
	}
	return nil
}

// LoadAll reads the stored table.
func (r *probabilityRepository) LoadAll(ctx context.Context) (demography.ProbabilityTable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity, sector, stratum, year, survivors, births FROM probabilities`)
	if err != nil {
		return nil, fmt.Errorf("failed to query probabilities: %w", err)
	}
	defer rows.Close()

	table := make(demography.ProbabilityTable)
	for rows.Next() {
		var key demography.ProbabilityKey
		var p demography.Probability
		if err := rows.Scan(&key.Entity, &key.Sector, &key.Stratum, &key.Year, &p.Survivors, &p.Births); err != nil {
			return nil, fmt.Errorf("failed to scan probability row: %w", err)
		}
		table[key] = p
	}
	return table, rows.Err()
}
