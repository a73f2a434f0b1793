package growth

import (
	"math"
	"testing"

	"demografia/domain/demography"
)

func pivotWithTotals(censuses []int, unitTotals []float64) *demography.PivotTable {
	cells := make(map[int]map[string]float64)
	row := make(map[string]float64)
	for i, year := range censuses {
		row[demography.ColumnLabel(year, demography.MetricUnits)] = unitTotals[i]
	}
	cells[1990] = row
	return demography.NewPivotTable([]int{1990}, censuses, []demography.Metric{demography.MetricUnits}, cells)
}

func TestFromTotals_FifthRoot(t *testing.T) {
	table := pivotWithTotals([]int{1988, 1993}, []float64{1000000, 1200000})
	factors := NewCalculator().FromTotals(table)

	got := factors.Factor(demography.MetricUnits, "1988-1993")
	want := math.Pow(1.2, 0.2) // ≈ 1.03714
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected factor %f, got %f", want, got)
	}
	if math.Abs(got-1.03714) > 1e-4 {
		t.Errorf("factor drifted from the reference value: %f", got)
	}
}

func TestFromTotals_ZeroBaseIsNaN(t *testing.T) {
	table := pivotWithTotals([]int{1988, 1993, 1998}, []float64{0, 500, 600})
	factors := NewCalculator().FromTotals(table)

	if v := factors.Factor(demography.MetricUnits, "1988-1993"); !math.IsNaN(v) {
		t.Errorf("zero starting total must leave the factor undefined, got %f", v)
	}
	if v := factors.Factor(demography.MetricUnits, "1993-1998"); math.IsNaN(v) {
		t.Error("later periods must still be computed")
	}
}

func TestFromTotals_SingleCensus(t *testing.T) {
	table := pivotWithTotals([]int{1988}, []float64{1000})
	factors := NewCalculator().FromTotals(table)
	if factors.HasMetric(demography.MetricUnits) {
		t.Error("one census column admits no factor")
	}
}

func TestFromSeries(t *testing.T) {
	out := demography.NewGrowthFactorTable()
	NewCalculator().FromSeries(out, demography.MetricPersonnel, []int{2013, 2018}, []float64{100, 200})

	got := out.Factor(demography.MetricPersonnel, "2013-2018")
	want := math.Pow(2, 0.2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestMeanFactor(t *testing.T) {
	out := demography.NewGrowthFactorTable()
	out.Set(demography.MetricUnits, "1988-1993", 1.1)
	out.Set(demography.MetricUnits, "1993-1998", 0.9)
	out.Set(demography.MetricUnits, "1998-2003", math.NaN())

	if got := MeanFactor(out, demography.MetricUnits); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("mean should skip NaN periods, got %f", got)
	}
	if got := MeanFactor(out, demography.MetricPersonnel); got != 1.0 {
		t.Errorf("metric without factors should degrade to 1.0, got %f", got)
	}
}
