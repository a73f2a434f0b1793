package projection

import (
	"fmt"
	"math"

	"demografia/domain/demography"
)

// Rate keys attached to survival and mortality points.
const (
	RateSurvivalProbability = "probabilidad_supervivencia"
	RateYearOverYearGrowth  = "crecimiento_anual_pct"
	RateMortality           = "tasa_mortalidad_pct"
)

// survivalLabels builds the per-lag display labels.
func survivalLabels(k int) map[demography.Metric]string {
	return map[demography.Metric]string{
		demography.MetricUnits:     fmt.Sprintf("Supervivientes después de %d años UE", k),
		demography.MetricPersonnel: fmt.Sprintf("Supervivientes después de %d años PO", k),
	}
}

// Survival builds the survivors-at-k series for k in {5,10,15,20,25}. Only
// censuses at or after 1988+k are considered, since earlier censuses cannot
// carry a full k-year-lagged cohort. Units compound with per-period factors;
// personnel survivor counts hold flat between censuses and are extended
// 2019–2022 by the administrative multipliers from the 2018 base.
//
// The derived survival probability for year t is
// min(1, survivors_t / births_(t-k)), clamped to [0,1]; births come from the
// natality series. A year-over-year percent growth rate of the survivor
// count is attached as well. The birth year for any point is year-k.
func (e *Engine) Survival(table *demography.PivotTable, k int, births demography.AnnualSeries) *Result {
	res := &Result{Phenomenon: demography.PhenomenonSurvival, Lag: k}
	if table.Empty() || !demography.ValidSurvivalLag(k) {
		return res
	}

	row := extractOffsetRow(table, demography.SurvivalStartYear(k))
	factors := demography.NewGrowthFactorTable()
	if hasMetric(table.Metrics, demography.MetricUnits) {
		// Personnel survivors intentionally get no factors: a NaN factor
		// carries the census value forward flat across each gap.
		e.growth.FromSeries(factors, demography.MetricUnits, row.censuses, row.values[demography.MetricUnits])
	}

	b := demography.NewSeriesBuilder(survivalLabels(k))
	for _, m := range table.Metrics {
		compound(b, m, row.anchorsFor(m), factors, demography.ProjectionCutoff)

		switch m {
		case demography.MetricUnits:
			e.bridgeUnits2019(b, m, factors)
		case demography.MetricPersonnel:
			bridgePersonnel2019(b, m)
			extendPersonnel(b, m)
		}
	}

	reconcileExtracted2023(b, row, table.Metrics)

	res.Factors = factors
	res.Series = b.Build()
	attachSurvivalRates(&res.Series, k, births)
	res.Diagnostics = diagnoseAll(res.Series, table.Metrics)
	return res
}

// attachSurvivalRates decorates each point with the clamped survival
// probability and the year-over-year growth of the survivor count.
func attachSurvivalRates(s *demography.AnnualSeries, k int, births demography.AnnualSeries) {
	var prev float64
	var prevOK bool
	for _, p := range s.Points {
		survivors, ok := p.Value(demography.MetricUnits)
		if !ok {
			prevOK = false
			continue
		}
		if born, found := births.ValueAt(p.Year-k, demography.MetricUnits); found && born > 0 {
			prob := survivors / born
			if prob > 1 {
				prob = 1
			}
			if prob < 0 || math.IsNaN(prob) {
				prob = 0
			}
			s.SetRate(p.Year, RateSurvivalProbability, prob)
		}
		if prevOK && prev > 0 {
			s.SetRate(p.Year, RateYearOverYearGrowth, (survivors/prev-1)*100)
		}
		prev, prevOK = survivors, true
	}
}

func hasMetric(metrics []demography.Metric, m demography.Metric) bool {
	for _, x := range metrics {
		if x == m {
			return true
		}
	}
	return false
}
