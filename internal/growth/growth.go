// Package growth derives the per-period geometric growth factors that the
// annual compounder multiplies forward.
package growth

import (
	"math"

	"github.com/montanaflynn/stats"

	"demografia/domain/demography"
)

// DefaultRoot annualizes a roughly five-year inter-census gap: x**0.2 is the
// fifth root used throughout the source series.
const DefaultRoot = 0.2

// Calculator computes geometric growth factors between consecutive censuses.
type Calculator struct {
	// Root is the exponent applied to end/start ratios.
	Root float64
}

// NewCalculator creates a calculator with the default fifth-root
// annualization.
func NewCalculator() *Calculator {
	return &Calculator{Root: DefaultRoot}
}

// FromTotals computes the factor table for every metric present in the
// pivot, reading the totals row. With a single census column per metric no
// factor can be computed and the metric is absent from the result; the
// compounder then degrades to holding the census value constant.
func (c *Calculator) FromTotals(table *demography.PivotTable) *demography.GrowthFactorTable {
	out := demography.NewGrowthFactorTable()
	if table.Empty() {
		return out
	}
	for _, m := range table.Metrics {
		values := make([]float64, len(table.Censuses))
		for i, year := range table.Censuses {
			values[i] = table.Total(demography.ColumnLabel(year, m))
		}
		c.fill(out, m, table.Censuses, values)
	}
	return out
}

// FromSeries computes factors for one metric from parallel census-year and
// value slices, e.g. the fixed-offset natality extraction.
func (c *Calculator) FromSeries(out *demography.GrowthFactorTable, m demography.Metric, censusYears []int, values []float64) {
	c.fill(out, m, censusYears, values)
}

// fill writes one factor per consecutive census pair. A zero, negative or
// NaN starting value leaves the factor undefined (NaN sentinel) rather than
// failing; the compounder treats NaN as "carry value forward unchanged".
func (c *Calculator) fill(out *demography.GrowthFactorTable, m demography.Metric, censusYears []int, values []float64) {
	for i := 0; i+1 < len(censusYears); i++ {
		period := demography.PeriodLabel(censusYears[i], censusYears[i+1])
		start, end := values[i], values[i+1]
		factor := math.NaN()
		if start > 0 && !math.IsNaN(end) {
			factor = math.Pow(end/start, c.Root)
		}
		out.Set(m, period, factor)
	}
}

// MeanFactor is the quinquennial-average annual rate for a metric: the
// arithmetic mean of the defined period factors. With no defined factor the
// rate degrades to 1.0 (no growth).
func MeanFactor(table *demography.GrowthFactorTable, m demography.Metric) float64 {
	defined := table.Defined(m)
	if len(defined) == 0 {
		return 1.0
	}
	mean, err := stats.Mean(defined)
	if err != nil {
		return 1.0
	}
	return mean
}
