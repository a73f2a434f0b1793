package projection

import (
	"demografia/domain/demography"
)

var natalityLabels = map[demography.Metric]string{
	demography.MetricUnits:     "Número de Nacimientos",
	demography.MetricPersonnel: "Nacimiento de Empleos",
}

// Natality builds the annual birth series. It reuses the pivot but extracts
// the fixed-offset row (5, 10, 15, ... per census) instead of the totals
// row: each census's natality is the observed count of businesses in the
// most recent five-year generation band. Factors, compounding and the
// post-2019 extension follow the activity pipeline, except that the
// 2020–2022 units factor is compounded year-over-year from a running value
// rather than applied to the fixed 2019 base.
func (e *Engine) Natality(table *demography.PivotTable, probs demography.ProbabilityTable, filter demography.Filter) *Result {
	res := &Result{Phenomenon: demography.PhenomenonNatality}
	if table.Empty() {
		return res
	}

	row := extractOffsetRow(table, 0)
	factors := demography.NewGrowthFactorTable()
	for _, m := range table.Metrics {
		e.growth.FromSeries(factors, m, row.censuses, row.values[m])
	}

	b := demography.NewSeriesBuilder(labelsFor(table.Metrics, natalityLabels))
	for _, m := range table.Metrics {
		compound(b, m, row.anchorsFor(m), factors, demography.ProjectionCutoff)

		switch m {
		case demography.MetricUnits:
			e.bridgeUnits2019(b, m, factors)
			res.Warnings = append(res.Warnings, extendUnits(b, m, ExtendCompounded, probs, filter)...)
		case demography.MetricPersonnel:
			bridgePersonnel2019(b, m)
			extendPersonnel(b, m)
		}
	}

	reconcileExtracted2023(b, row, table.Metrics)

	res.Factors = factors
	res.Series = b.Build()
	res.Diagnostics = diagnoseAll(res.Series, table.Metrics)
	return res
}

// reconcileExtracted2023 is the 2023 reconciliation for the derived
// phenomena: the observation comes from the extracted row rather than the
// totals row, but still always wins over synthesized values.
func reconcileExtracted2023(b *demography.SeriesBuilder, row extractedRow, metrics []demography.Metric) {
	observed := make(map[demography.Metric]float64)
	for _, m := range metrics {
		if v, ok := row.observed2023(m); ok {
			observed[m] = v
		}
	}
	if len(observed) == 0 {
		return
	}
	b.DropYear(demography.FinalCensusYear)
	for _, m := range metrics {
		if v, ok := observed[m]; ok {
			b.Add(demography.FinalCensusYear, m, v)
		}
	}
}
