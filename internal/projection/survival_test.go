package projection

import (
	"math"
	"testing"

	"demografia/domain/demography"
)

func survivalFixture() *demography.PivotTable {
	return offsetPivot([]int{1988, 1993, 1998}, 12, map[demography.Metric]map[int]map[int]float64{
		demography.MetricUnits: {
			1993: {5: 80},
			1998: {10: 100},
		},
		demography.MetricPersonnel: {
			1993: {5: 200},
			1998: {10: 210},
		},
	})
}

func birthsSeries(values map[int]float64) demography.AnnualSeries {
	b := demography.NewSeriesBuilder(nil)
	for year, v := range values {
		b.Add(year, demography.MetricUnits, v)
	}
	return b.Build()
}

func TestSurvival_StartYearFilter(t *testing.T) {
	res := NewEngine().Survival(survivalFixture(), 5, demography.AnnualSeries{})

	// The 1988 census predates 1988+5 and cannot carry a 5-year cohort.
	if _, ok := res.Series.ValueAt(1988, demography.MetricUnits); ok {
		t.Error("censuses before the start year must be excluded")
	}
	approx(t, mustValue(t, res.Series, 1993, demography.MetricUnits), 80, "first eligible census")
	approx(t, mustValue(t, res.Series, 1998, demography.MetricUnits), 100, "second census anchor")
}

func TestSurvival_UnitsCompoundPersonnelHoldFlat(t *testing.T) {
	res := NewEngine().Survival(survivalFixture(), 5, demography.AnnualSeries{})

	f := math.Pow(100.0/80.0, 0.2)
	approx(t, mustValue(t, res.Series, 1995, demography.MetricUnits), 80*f*f, "units compound")

	// Personnel survivors get no factors and carry the census value flat
	// across the gap.
	approx(t, mustValue(t, res.Series, 1995, demography.MetricPersonnel), 200, "personnel flat")
	approx(t, mustValue(t, res.Series, 1997, demography.MetricPersonnel), 200, "personnel flat")
	approx(t, mustValue(t, res.Series, 1998, demography.MetricPersonnel), 210, "personnel anchor")
}

func TestSurvival_ProbabilityClamped(t *testing.T) {
	births := birthsSeries(map[int]float64{
		1988: 160, // 1993 cohort: 80/160 = 0.5
		1993: 50,  // 1998 cohort: 100/50 clamps to 1
	})
	res := NewEngine().Survival(survivalFixture(), 5, births)

	p1993, ok := res.Series.At(1993)
	if !ok {
		t.Fatal("missing 1993 point")
	}
	approx(t, p1993.Rates[RateSurvivalProbability], 0.5, "1993 probability")

	p1998, ok := res.Series.At(1998)
	if !ok {
		t.Fatal("missing 1998 point")
	}
	if got := p1998.Rates[RateSurvivalProbability]; got != 1 {
		t.Errorf("probability above 1 must clamp to 1, got %f", got)
	}
}

func TestSurvival_YearOverYearGrowthRate(t *testing.T) {
	res := NewEngine().Survival(survivalFixture(), 5, demography.AnnualSeries{})

	f := math.Pow(100.0/80.0, 0.2)
	p1994, ok := res.Series.At(1994)
	if !ok {
		t.Fatal("missing 1994 point")
	}
	approx(t, p1994.Rates[RateYearOverYearGrowth], (f-1)*100, "yoy growth")

	// The first point has no predecessor and therefore no growth rate.
	p1993, _ := res.Series.At(1993)
	if _, ok := p1993.Rates[RateYearOverYearGrowth]; ok {
		t.Error("first point must not carry a growth rate")
	}
}

func TestSurvival_InvalidLag(t *testing.T) {
	res := NewEngine().Survival(survivalFixture(), 7, demography.AnnualSeries{})
	if !res.Series.Empty() {
		t.Error("unsupported lag must produce an empty series")
	}
}

func TestSurvival_LagMetadata(t *testing.T) {
	res := NewEngine().Survival(survivalFixture(), 5, demography.AnnualSeries{})
	if res.Lag != 5 {
		t.Errorf("expected lag 5 on the result, got %d", res.Lag)
	}
	if res.Series.Labels[demography.MetricUnits] != "Supervivientes después de 5 años UE" {
		t.Errorf("unexpected label %q", res.Series.Labels[demography.MetricUnits])
	}
}
