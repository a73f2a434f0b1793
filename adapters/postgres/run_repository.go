package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"demografia/domain/demography"
	"demografia/internal/errors"
	"demografia/ports"
)

// runRepository implements ports.RunRepository on PostgreSQL.
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a projection-run repository.
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Create inserts a new projection run, with the series stored as JSON.
func (r *runRepository) Create(ctx context.Context, run *demography.ProjectionRun) error {
	seriesJSON, err := json.Marshal(run.Series)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}
	warningsJSON, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `INSERT INTO projection_runs (
		id, phenomenon, entity, sector, stratum, lag, series, warnings, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Phenomenon, run.Entity, run.Sector, run.Stratum, run.Lag,
		seriesJSON, warningsJSON, run.CreatedAt,
	)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to create projection run: %v", err))
	}
	return nil
}

// GetByID retrieves a projection run by its ID.
func (r *runRepository) GetByID(ctx context.Context, id string) (*demography.ProjectionRun, error) {
	query := `SELECT id, phenomenon, entity, sector, stratum, lag, series, warnings, created_at
	FROM projection_runs WHERE id = $1`

	var run demography.ProjectionRun
	var seriesJSON, warningsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Phenomenon, &run.Entity, &run.Sector, &run.Stratum, &run.Lag,
		&seriesJSON, &warningsJSON, &run.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("projection run " + id)
		}
		return nil, errors.DatabaseError(fmt.Sprintf("failed to get projection run: %v", err))
	}

	if err := json.Unmarshal(seriesJSON, &run.Series); err != nil {
		return nil, fmt.Errorf("failed to unmarshal series: %w", err)
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}
	return &run, nil
}

// List retrieves runs newest first, with pagination.
func (r *runRepository) List(ctx context.Context, limit, offset int) ([]*demography.ProjectionRun, error) {
	query := `SELECT id, phenomenon, entity, sector, stratum, lag, series, warnings, created_at
	FROM projection_runs
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to query projection runs: %v", err))
	}
	defer rows.Close()

	var runs []*demography.ProjectionRun
	for rows.Next() {
		var run demography.ProjectionRun
		var seriesJSON, warningsJSON []byte
		if err := rows.Scan(
			&run.ID, &run.Phenomenon, &run.Entity, &run.Sector, &run.Stratum, &run.Lag,
			&seriesJSON, &warningsJSON, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan projection run: %w", err)
		}
		if err := json.Unmarshal(seriesJSON, &run.Series); err != nil {
			return nil, fmt.Errorf("failed to unmarshal series: %w", err)
		}
		if len(warningsJSON) > 0 {
			if err := json.Unmarshal(warningsJSON, &run.Warnings); err != nil {
				return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
			}
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
