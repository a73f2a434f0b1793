package projection

import (
	"math"
	"strings"
	"testing"

	"demografia/domain/demography"
)

// totalsPivot builds a one-generation pivot whose totals row equals the given
// per-census values. Enough for the activity pipeline, which only reads
// totals.
func totalsPivot(censuses []int, totals map[demography.Metric][]float64) *demography.PivotTable {
	var metrics []demography.Metric
	for _, m := range []demography.Metric{demography.MetricUnits, demography.MetricPersonnel} {
		if _, ok := totals[m]; ok {
			metrics = append(metrics, m)
		}
	}
	row := make(map[string]float64)
	for _, m := range metrics {
		for i, year := range censuses {
			row[demography.ColumnLabel(year, m)] = totals[m][i]
		}
	}
	return demography.NewPivotTable([]int{1900}, censuses, metrics, map[int]map[string]float64{1900: row})
}

func nationalProbs(rates map[int]float64) demography.ProbabilityTable {
	t := make(demography.ProbabilityTable)
	for year, rate := range rates {
		t[demography.ProbabilityKey{
			Entity:  demography.EntityNational,
			Sector:  demography.SectorAll,
			Stratum: demography.StratumAll,
			Year:    year,
		}] = demography.Probability{Survivors: rate, Births: 0}
	}
	return t
}

func mustValue(t *testing.T, s demography.AnnualSeries, year int, m demography.Metric) float64 {
	t.Helper()
	v, ok := s.ValueAt(year, m)
	if !ok {
		t.Fatalf("no value for %s at %d", m, year)
	}
	return v
}

func approx(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
		t.Errorf("%s: expected %f, got %f", what, want, got)
	}
}

func TestPopulationActivity_GeometricInterpolation(t *testing.T) {
	table := totalsPivot([]int{1988, 1993}, map[demography.Metric][]float64{
		demography.MetricUnits: {1000000, 1200000},
	})
	res := NewEngine().PopulationActivity(table, nil, demography.Filter{})

	f := math.Pow(1.2, 0.2)
	approx(t, res.Factors.Factor(demography.MetricUnits, "1988-1993"), f, "period factor")

	approx(t, mustValue(t, res.Series, 1988, demography.MetricUnits), 1000000, "start anchor")
	approx(t, mustValue(t, res.Series, 1990, demography.MetricUnits), 1000000*f*f, "interpolated 1990")
	// The terminal census value is the observation, not the compounded
	// estimate.
	approx(t, mustValue(t, res.Series, 1993, demography.MetricUnits), 1200000, "end anchor")

	want := []int{1988, 1989, 1990, 1991, 1992, 1993}
	years := res.Series.Years()
	if len(years) != len(want) {
		t.Fatalf("expected dense coverage %v, got %v", want, years)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("expected dense coverage %v, got %v", want, years)
		}
	}
}

func TestPopulationActivity_ZeroBaseHoldsFlat(t *testing.T) {
	table := totalsPivot([]int{1988, 1993}, map[demography.Metric][]float64{
		demography.MetricUnits: {0, 500},
	})
	res := NewEngine().PopulationActivity(table, nil, demography.Filter{})

	if !math.IsNaN(res.Factors.Factor(demography.MetricUnits, "1988-1993")) {
		t.Error("zero base must leave the period factor undefined")
	}
	approx(t, mustValue(t, res.Series, 1991, demography.MetricUnits), 0, "flat carry-forward")
	approx(t, mustValue(t, res.Series, 1993, demography.MetricUnits), 500, "end anchor still observed")
}

func TestPopulationActivity_ExtensionsAndReconciliation(t *testing.T) {
	table := totalsPivot([]int{2013, 2018, 2023}, map[demography.Metric][]float64{
		demography.MetricUnits:     {100, 110, 999},
		demography.MetricPersonnel: {1000, 1100, 2222},
	})
	probs := nationalProbs(map[int]float64{2020: 0.97, 2021: 0.95, 2022: 0.93})

	res := NewEngine().PopulationActivity(table, probs, demography.Filter{})
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	// Units 2019 bridges from 2018 by the mean of the defined period
	// factors; both the 2013-2018 and 2018-2023 factors contribute.
	mean := (math.Pow(1.1, 0.2) + math.Pow(999.0/110.0, 0.2)) / 2
	ue2019 := 110 * mean
	approx(t, mustValue(t, res.Series, 2019, demography.MetricUnits), ue2019, "units 2019 bridge")

	// Units 2020-2022 apply each year's rate to the fixed 2019 base.
	approx(t, mustValue(t, res.Series, 2020, demography.MetricUnits), ue2019*0.97, "units 2020")
	approx(t, mustValue(t, res.Series, 2021, demography.MetricUnits), ue2019*0.95, "units 2021")
	approx(t, mustValue(t, res.Series, 2022, demography.MetricUnits), ue2019*0.93, "units 2022")

	// Personnel follows the administrative multipliers cumulatively.
	po := 1100 * demography.IMSSRates[0]
	approx(t, mustValue(t, res.Series, 2019, demography.MetricPersonnel), po, "personnel 2019")
	po *= demography.IMSSRates[1]
	approx(t, mustValue(t, res.Series, 2020, demography.MetricPersonnel), po, "personnel 2020")
	po *= demography.IMSSRates[2]
	approx(t, mustValue(t, res.Series, 2021, demography.MetricPersonnel), po, "personnel 2021")
	po *= demography.IMSSRates[3]
	approx(t, mustValue(t, res.Series, 2022, demography.MetricPersonnel), po, "personnel 2022")

	// 2023 is the observed census value for both metrics, never the
	// synthesized one.
	approx(t, mustValue(t, res.Series, 2023, demography.MetricUnits), 999, "units 2023 observed")
	approx(t, mustValue(t, res.Series, 2023, demography.MetricPersonnel), 2222, "personnel 2023 observed")

	// Dense coverage from the first census through 2023.
	years := res.Series.Years()
	if years[0] != 2013 || years[len(years)-1] != 2023 || len(years) != 11 {
		t.Errorf("expected dense 2013-2023 coverage, got %v", years)
	}
}

func TestPopulationActivity_MissingProbabilityRow(t *testing.T) {
	table := totalsPivot([]int{2013, 2018}, map[demography.Metric][]float64{
		demography.MetricUnits: {100, 110},
	})
	probs := nationalProbs(map[int]float64{2020: 0.97}) // 2021 and 2022 missing

	res := NewEngine().PopulationActivity(table, probs, demography.Filter{})

	if _, ok := res.Series.ValueAt(2020, demography.MetricUnits); !ok {
		t.Error("covered extension year should be present")
	}
	for _, year := range []int{2021, 2022} {
		if _, ok := res.Series.ValueAt(year, demography.MetricUnits); ok {
			t.Errorf("missing probability row must leave %d as a gap, not a default", year)
		}
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected one warning per missing year, got %v", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "2021") || !strings.Contains(res.Warnings[1], "2022") {
		t.Errorf("warnings should name the missing years: %v", res.Warnings)
	}
}

func TestPopulationActivity_EmptyProbabilityTable(t *testing.T) {
	table := totalsPivot([]int{2013, 2018}, map[demography.Metric][]float64{
		demography.MetricUnits: {100, 110},
	})
	res := NewEngine().PopulationActivity(table, nil, demography.Filter{})

	if _, ok := res.Series.ValueAt(2019, demography.MetricUnits); !ok {
		t.Error("2019 bridge does not depend on the probability table")
	}
	if _, ok := res.Series.ValueAt(2020, demography.MetricUnits); ok {
		t.Error("no probability table means the units series ends at 2019")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected a single availability warning, got %v", res.Warnings)
	}
}

func TestPopulationActivity_BridgeExponentVariants(t *testing.T) {
	table := totalsPivot([]int{2013, 2018}, map[demography.Metric][]float64{
		demography.MetricUnits: {100, 110},
	})
	mean := math.Pow(1.1, 0.2)

	ref := NewEngine().PopulationActivity(table, nil, demography.Filter{})
	approx(t, mustValue(t, ref.Series, 2019, demography.MetricUnits), 110*mean, "reference exponent 1")

	alt := NewEngineWithConfig(Config{BridgeExponent: 1.0 / 5}).PopulationActivity(table, nil, demography.Filter{})
	approx(t, mustValue(t, alt.Series, 2019, demography.MetricUnits), 110*math.Pow(mean, 1.0/5), "fifth-root exponent")
}

func TestPopulationActivity_Deterministic(t *testing.T) {
	table := totalsPivot([]int{2013, 2018, 2023}, map[demography.Metric][]float64{
		demography.MetricUnits: {100, 110, 999},
	})
	probs := nationalProbs(map[int]float64{2020: 0.97, 2021: 0.95, 2022: 0.93})

	a := NewEngine().PopulationActivity(table, probs, demography.Filter{})
	b := NewEngine().PopulationActivity(table, probs, demography.Filter{})
	for _, year := range a.Series.Years() {
		va := mustValue(t, a.Series, year, demography.MetricUnits)
		vb := mustValue(t, b.Series, year, demography.MetricUnits)
		if va != vb {
			t.Fatalf("non-deterministic value at %d: %f vs %f", year, va, vb)
		}
	}
}

func TestPopulationActivity_EmptyPivot(t *testing.T) {
	res := NewEngine().PopulationActivity(nil, nil, demography.Filter{})
	if !res.Series.Empty() {
		t.Error("empty pivot must produce an empty series")
	}
}

func TestDiagnose(t *testing.T) {
	table := totalsPivot([]int{1988, 1993}, map[demography.Metric][]float64{
		demography.MetricUnits: {1000000, 1200000},
	})
	res := NewEngine().PopulationActivity(table, nil, demography.Filter{})

	d, ok := res.Diagnostics[demography.MetricUnits]
	if !ok {
		t.Fatal("expected diagnostics for units")
	}
	if d.Years != 6 {
		t.Errorf("expected 6 observations, got %d", d.Years)
	}
	approx(t, d.Min, 1000000, "min")
	approx(t, d.Max, 1200000, "max")
	if d.TrendSlope <= 0 {
		t.Errorf("growing series should have positive trend slope, got %f", d.TrendSlope)
	}
	if d.GeoMeanGrowth <= 1 || d.MeanGrowth <= 1 {
		t.Errorf("growing series should have growth multipliers above 1: %f / %f", d.GeoMeanGrowth, d.MeanGrowth)
	}
}
