package postgres

import (
	"context"

	"demografia/domain/demography"
	"demografia/internal"
	"demografia/ports"
)

// ProbabilitySource serves the probability table from the database, falling
// back to another loader (the CSV file) and seeding the database from it on
// first use. Later starts then work without the source file present.
type ProbabilitySource struct {
	repo     ports.ProbabilityRepository
	fallback ports.ProbabilityLoader
	logger   *internal.Logger
}

var _ ports.ProbabilityLoader = (*ProbabilitySource)(nil)

// NewProbabilitySource creates the database-first probability loader.
func NewProbabilitySource(repo ports.ProbabilityRepository, fallback ports.ProbabilityLoader, logger *internal.Logger) *ProbabilitySource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ProbabilitySource{repo: repo, fallback: fallback, logger: logger}
}

// Load reads the stored table, deferring to the fallback loader when the
// database holds no rows yet. A freshly loaded table is written back; a
// failed write-back is only a warning since the in-memory table is complete.
func (s *ProbabilitySource) Load(ctx context.Context) (demography.ProbabilityTable, []string, error) {
	stored, err := s.repo.LoadAll(ctx)
	if err == nil && !stored.Empty() {
		s.logger.Debug("probability table served from database (%d rows)", len(stored))
		return stored, nil, nil
	}
	if err != nil {
		s.logger.Warn("probability table unreadable from database: %v", err)
	}

	table, warnings, err := s.fallback.Load(ctx)
	if err != nil {
		return nil, warnings, err
	}
	if !table.Empty() {
		if err := s.repo.ReplaceAll(ctx, table); err != nil {
			warnings = append(warnings, "failed to seed probability table into database: "+err.Error())
		} else {
			s.logger.Info("seeded %d probability rows into database", len(table))
		}
	}
	return table, warnings, nil
}
