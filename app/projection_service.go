// Package app wires the loaders, the pivot builder and the projection
// engine behind a request-scoped service with process-wide memoization.
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"demografia/domain/demography"
	"demografia/internal"
	"demografia/internal/errors"
	"demografia/internal/memo"
	"demografia/internal/pivot"
	"demografia/internal/projection"
	"demografia/ports"
)

// Request identifies one computation: the filters plus the metric selection.
// Explicit parameter object instead of shared session state; every derived
// result is memoized by the request's key.
type Request struct {
	Filter  demography.Filter
	Metrics demography.MetricSet
}

func (r Request) key(kind string) string {
	return kind + "|" + r.Filter.Key() + "|" + r.Metrics.Key()
}

// ProjectionService serves the demographic series for the loaded census
// data. Source data is read once and immutable for the process lifetime.
type ProjectionService struct {
	observations  []demography.CensusObservation
	probabilities demography.ProbabilityTable
	loadWarnings  []string

	engine *projection.Engine
	pivots *pivot.Builder
	cache  *memo.Store
	runs   ports.RunRepository
	logger *internal.Logger

	entities []string
	sectors  []string
}

// Options configures optional collaborators.
type Options struct {
	// Engine overrides the projection knobs (bridge exponent).
	Engine projection.Config
	// Runs enables projection-run persistence when non-nil.
	Runs ports.RunRepository
	// Logger defaults to the process logger.
	Logger *internal.Logger
}

// NewProjectionService loads the census and probability data and prepares
// the service. Loading is the only blocking I/O; everything after is pure
// computation over the cached observations.
func NewProjectionService(ctx context.Context, censuses ports.CensusLoader, probabilities ports.ProbabilityLoader, opts Options) (*ProjectionService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	obs, warnings, err := censuses.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	probs, probWarnings, err := probabilities.Load(ctx)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, probWarnings...)
	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	logger.Info("loaded %d census observations, %d probability rows", len(obs), len(probs))

	s := &ProjectionService{
		observations:  obs,
		probabilities: probs,
		loadWarnings:  warnings,
		engine:        projection.NewEngineWithConfig(opts.Engine),
		pivots:        pivot.NewBuilder(),
		cache:         memo.NewStore(),
		runs:          opts.Runs,
		logger:        logger,
	}
	s.entities, s.sectors = distinctDimensions(obs)
	return s, nil
}

// LoadWarnings returns the non-fatal problems found while loading sources.
func (s *ProjectionService) LoadWarnings() []string { return s.loadWarnings }

// Entities returns the distinct entity names, sorted, with the national
// sentinel first.
func (s *ProjectionService) Entities() []string { return s.entities }

// Sectors returns the distinct sector names, sorted, with the all-sectors
// sentinel first.
func (s *ProjectionService) Sectors() []string { return s.sectors }

// Pivot returns the memoized pivot for a request.
func (s *ProjectionService) Pivot(req Request) (*demography.PivotTable, error) {
	v, err := s.cache.GetOrCompute(req.key("pivot"), func() (interface{}, error) {
		filtered := pivot.Filter(s.observations, req.Filter)
		return s.pivots.Build(filtered, req.Metrics)
	})
	if err != nil {
		return nil, err
	}
	return v.(*demography.PivotTable), nil
}

// PopulationActivity returns the memoized active-population projection.
func (s *ProjectionService) PopulationActivity(req Request) (*projection.Result, error) {
	v, err := s.cache.GetOrCompute(req.key("activity"), func() (interface{}, error) {
		table, err := s.Pivot(req)
		if err != nil {
			return nil, err
		}
		return s.engine.PopulationActivity(table, s.probabilities, req.Filter), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*projection.Result), nil
}

// Natality returns the memoized birth projection.
func (s *ProjectionService) Natality(req Request) (*projection.Result, error) {
	v, err := s.cache.GetOrCompute(req.key("natality"), func() (interface{}, error) {
		table, err := s.Pivot(req)
		if err != nil {
			return nil, err
		}
		return s.engine.Natality(table, s.probabilities, req.Filter), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*projection.Result), nil
}

// Survival returns the memoized survivors-at-k projection. The natality
// series supplies the birth counts for the survival probabilities.
func (s *ProjectionService) Survival(req Request, k int) (*projection.Result, error) {
	if !demography.ValidSurvivalLag(k) {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported survival lag %d (want one of %v)", k, demography.SurvivalLags))
	}
	v, err := s.cache.GetOrCompute(fmt.Sprintf("%s|k=%d", req.key("survival"), k), func() (interface{}, error) {
		table, err := s.Pivot(req)
		if err != nil {
			return nil, err
		}
		births, err := s.Natality(req)
		if err != nil {
			return nil, err
		}
		return s.engine.Survival(table, k, births.Series), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*projection.Result), nil
}

// Mortality returns the memoized death derivation. It requires the units
// metric, since both the survivor window and the active baseline are unit
// counts.
func (s *ProjectionService) Mortality(req Request) (*projection.Result, error) {
	if !req.Metrics.Units {
		return nil, errors.InvalidInput("mortality requires the units metric")
	}
	v, err := s.cache.GetOrCompute(req.key("mortality"), func() (interface{}, error) {
		table, err := s.Pivot(req)
		if err != nil {
			return nil, err
		}
		activity, err := s.PopulationActivity(req)
		if err != nil {
			return nil, err
		}
		return s.engine.Mortality(table, activity.Series), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*projection.Result), nil
}

// SaveRun persists a computed result for later inspection.
func (s *ProjectionService) SaveRun(ctx context.Context, req Request, result *projection.Result) (*demography.ProjectionRun, error) {
	if s.runs == nil {
		return nil, errors.ConfigInvalid("run persistence is not configured (DATABASE_URL unset)")
	}
	run := &demography.ProjectionRun{
		ID:         uuid.NewString(),
		Phenomenon: result.Phenomenon,
		Entity:     req.Filter.Entity,
		Sector:     req.Filter.Sector,
		Stratum:    req.Filter.Stratum,
		Lag:        result.Lag,
		Series:     result.Series,
		Warnings:   result.Warnings,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, errors.Wrap(err, "failed to persist projection run")
	}
	s.logger.Info("persisted projection run %s (%s)", run.ID, run.Phenomenon)
	return run, nil
}

// Run retrieves a persisted run by ID.
func (s *ProjectionService) Run(ctx context.Context, id string) (*demography.ProjectionRun, error) {
	if s.runs == nil {
		return nil, errors.ConfigInvalid("run persistence is not configured (DATABASE_URL unset)")
	}
	return s.runs.GetByID(ctx, id)
}

// Runs lists persisted runs newest first.
func (s *ProjectionService) Runs(ctx context.Context, limit, offset int) ([]*demography.ProjectionRun, error) {
	if s.runs == nil {
		return nil, errors.ConfigInvalid("run persistence is not configured (DATABASE_URL unset)")
	}
	return s.runs.List(ctx, limit, offset)
}

func distinctDimensions(obs []demography.CensusObservation) (entities, sectors []string) {
	entitySet := make(map[string]struct{})
	sectorSet := make(map[string]struct{})
	for _, o := range obs {
		entitySet[o.Entity] = struct{}{}
		sectorSet[o.Sector] = struct{}{}
	}
	entities = append(entities, demography.EntityNational)
	sectors = append(sectors, demography.SectorAll)
	entities = append(entities, sortedKeys(entitySet)...)
	sectors = append(sectors, sortedKeys(sectorSet)...)
	return entities, sectors
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
