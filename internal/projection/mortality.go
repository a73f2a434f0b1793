package projection

import (
	"math"

	"demografia/domain/demography"
)

var mortalityLabels = map[demography.Metric]string{
	demography.MetricUnits: "Número de Muertes",
}

// Mortality derives business deaths per census from the pivot and the
// population-activity series (a real cross-adapter dependency: the active
// baseline is the activity adapter's own synthesized value).
//
// For the i-th census the cumulative survivor count sums the first
// 5*(i+1)+1 pivot rows. The window carries one extra boundary row relative
// to the flat 5*(i+1) offset used by natality and survival; the asymmetry is
// preserved exactly as observed.
//
// deaths_t = max(0, active_(t-5) - survivors_t), with the mortality rate
// deaths_t / active_(t-1) * 100.
func (e *Engine) Mortality(table *demography.PivotTable, activity demography.AnnualSeries) *Result {
	res := &Result{Phenomenon: demography.PhenomenonMortality}
	if table.Empty() || !hasMetric(table.Metrics, demography.MetricUnits) {
		return res
	}

	b := demography.NewSeriesBuilder(mortalityLabels)
	type censusDeath struct {
		year      int
		deaths    float64
		survivors float64
	}
	var computed []censusDeath

	for i, year := range table.Censuses {
		window := RowStep*(i+1) + 1
		survivors := cumulativeSurvivors(table, year, window)

		active, ok := activity.ValueAt(year-RowStep, demography.MetricUnits)
		if !ok {
			continue
		}
		deaths := active - survivors
		if deaths < 0 {
			deaths = 0
		}
		b.Add(year, demography.MetricUnits, deaths)
		computed = append(computed, censusDeath{year: year, deaths: deaths, survivors: survivors})
	}

	res.Series = b.Build()
	for _, cd := range computed {
		res.Series.SetRate(cd.year, "sobrevivientes_acumulados", cd.survivors)
		if prevActive, ok := activity.ValueAt(cd.year-1, demography.MetricUnits); ok && prevActive > 0 {
			res.Series.SetRate(cd.year, RateMortality, cd.deaths/prevActive*100)
		}
	}
	res.Diagnostics = diagnoseAll(res.Series, []demography.Metric{demography.MetricUnits})
	return res
}

// cumulativeSurvivors sums the census column over the leading window rows,
// skipping positions past the pivot.
func cumulativeSurvivors(table *demography.PivotTable, censusYear, window int) float64 {
	col := demography.ColumnLabel(censusYear, demography.MetricUnits)
	var sum float64
	for row := 0; row < window && row < table.RowCount()-1; row++ {
		v := table.ValueAt(row, col)
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}
