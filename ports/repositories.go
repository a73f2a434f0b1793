package ports

import (
	"context"

	"demografia/domain/demography"
)

// RunRepository persists computed projection runs for later inspection.
type RunRepository interface {
	Create(ctx context.Context, run *demography.ProjectionRun) error
	GetByID(ctx context.Context, id string) (*demography.ProjectionRun, error)
	List(ctx context.Context, limit, offset int) ([]*demography.ProjectionRun, error)
}

// ProbabilityRepository stores the probability table in the database as an
// alternative source to the CSV file.
type ProbabilityRepository interface {
	ReplaceAll(ctx context.Context, table demography.ProbabilityTable) error
	LoadAll(ctx context.Context) (demography.ProbabilityTable, error)
}
