package app

import (
	"context"
	"testing"

	"demografia/domain/demography"
	"demografia/internal/errors"
	"demografia/internal/projection"
)

type fakeCensusLoader struct {
	obs      []demography.CensusObservation
	warnings []string
	err      error
}

func (f fakeCensusLoader) LoadAll(ctx context.Context) ([]demography.CensusObservation, []string, error) {
	return f.obs, f.warnings, f.err
}

type fakeProbabilityLoader struct {
	table demography.ProbabilityTable
}

func (f fakeProbabilityLoader) Load(ctx context.Context) (demography.ProbabilityTable, []string, error) {
	return f.table, nil, nil
}

type fakeRunRepository struct {
	runs map[string]*demography.ProjectionRun
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{runs: make(map[string]*demography.ProjectionRun)}
}

func (r *fakeRunRepository) Create(ctx context.Context, run *demography.ProjectionRun) error {
	r.runs[run.ID] = run
	return nil
}

func (r *fakeRunRepository) GetByID(ctx context.Context, id string) (*demography.ProjectionRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, errors.NotFound("projection run")
	}
	return run, nil
}

func (r *fakeRunRepository) List(ctx context.Context, limit, offset int) ([]*demography.ProjectionRun, error) {
	var out []*demography.ProjectionRun
	for _, run := range r.runs {
		out = append(out, run)
	}
	return out, nil
}

func testObservations() []demography.CensusObservation {
	var out []demography.CensusObservation
	for _, census := range []struct {
		year  int
		total float64
	}{{1988, 1000}, {1993, 1200}} {
		// Spread each census total over a handful of generation rows.
		per := census.total / 4
		for i := 0; i < 4; i++ {
			out = append(out, demography.CensusObservation{
				Entity:         "JALISCO",
				Sector:         "COMERCIO",
				Stratum:        1,
				GenerationYear: census.year - 4 + i,
				CensusYear:     census.year,
				Units:          per,
				Personnel:      per * 3,
			})
		}
	}
	return out
}

func newTestService(t *testing.T, opts Options) *ProjectionService {
	t.Helper()
	s, err := NewProjectionService(
		context.Background(),
		fakeCensusLoader{obs: testObservations(), warnings: []string{"census 1998 missing"}},
		fakeProbabilityLoader{},
		opts,
	)
	if err != nil {
		t.Fatalf("service construction failed: %v", err)
	}
	return s
}

func TestNewProjectionService_PropagatesLoadError(t *testing.T) {
	_, err := NewProjectionService(
		context.Background(),
		fakeCensusLoader{err: errors.NoCensusData()},
		fakeProbabilityLoader{},
		Options{},
	)
	if !errors.Is(err, errors.CodeNoCensusData) {
		t.Fatalf("expected NO_CENSUS_DATA, got %v", err)
	}
}

func TestLoadWarningsSurface(t *testing.T) {
	s := newTestService(t, Options{})
	if len(s.LoadWarnings()) != 1 {
		t.Errorf("expected the loader warning to surface, got %v", s.LoadWarnings())
	}
}

func TestPivot_Memoized(t *testing.T) {
	s := newTestService(t, Options{})
	req := Request{Metrics: demography.MetricSet{Units: true}}

	a, err := s.Pivot(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := s.Pivot(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("same request must return the cached pivot")
	}

	other, err := s.Pivot(Request{Metrics: demography.MetricSet{Units: true, Personnel: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == other {
		t.Error("different metric selections must not share a cache entry")
	}
}

func TestPopulationActivity_EndToEnd(t *testing.T) {
	s := newTestService(t, Options{})
	req := Request{Metrics: demography.MetricSet{Units: true}}

	res, err := s.PopulationActivity(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := res.Series.ValueAt(1988, demography.MetricUnits); !ok || v != 1000 {
		t.Errorf("expected seeded 1988 total 1000, got %f ok=%t", v, ok)
	}
	if v, ok := res.Series.ValueAt(1993, demography.MetricUnits); !ok || v != 1200 {
		t.Errorf("expected observed 1993 total 1200, got %f ok=%t", v, ok)
	}

	again, _ := s.PopulationActivity(req)
	if res != again {
		t.Error("projection results must be memoized")
	}
}

func TestPivot_EmptyFilterResult(t *testing.T) {
	s := newTestService(t, Options{})
	req := Request{
		Filter:  demography.Filter{Entity: "YUCATÁN"},
		Metrics: demography.MetricSet{Units: true},
	}
	_, err := s.Pivot(req)
	if !errors.Is(err, errors.CodeEmptyFilterResult) {
		t.Fatalf("expected EMPTY_FILTER_RESULT, got %v", err)
	}
}

func TestSurvival_RejectsInvalidLag(t *testing.T) {
	s := newTestService(t, Options{})
	_, err := s.Survival(Request{Metrics: demography.MetricSet{Units: true}}, 7)
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestMortality_RequiresUnits(t *testing.T) {
	s := newTestService(t, Options{})
	_, err := s.Mortality(Request{Metrics: demography.MetricSet{Personnel: true}})
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRuns_NotConfigured(t *testing.T) {
	s := newTestService(t, Options{})
	if _, err := s.SaveRun(context.Background(), Request{}, &projection.Result{}); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Fatalf("expected CONFIG_INVALID, got %v", err)
	}
	if _, err := s.Run(context.Background(), "x"); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Fatalf("expected CONFIG_INVALID, got %v", err)
	}
}

func TestSaveAndFetchRun(t *testing.T) {
	repo := newFakeRunRepository()
	s := newTestService(t, Options{Runs: repo})
	req := Request{
		Filter:  demography.Filter{Entity: "JALISCO"},
		Metrics: demography.MetricSet{Units: true},
	}

	res, err := s.PopulationActivity(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	run, err := s.SaveRun(context.Background(), req, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if run.ID == "" || run.Phenomenon != demography.PhenomenonActivity || run.Entity != "JALISCO" {
		t.Errorf("run not populated from request and result: %+v", run)
	}

	got, err := s.Run(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("fetched a different run: %s vs %s", got.ID, run.ID)
	}
}

func TestDistinctDimensions_SentinelsFirst(t *testing.T) {
	s := newTestService(t, Options{})
	if s.Entities()[0] != demography.EntityNational {
		t.Errorf("national sentinel must come first, got %v", s.Entities())
	}
	if s.Sectors()[0] != demography.SectorAll {
		t.Errorf("all-sectors sentinel must come first, got %v", s.Sectors())
	}
	if len(s.Entities()) != 2 || s.Entities()[1] != "JALISCO" {
		t.Errorf("unexpected entities: %v", s.Entities())
	}
}
