package projection

import (
	"demografia/domain/demography"
)

var activityLabels = map[demography.Metric]string{
	demography.MetricUnits:     "Número de Negocios",
	demography.MetricPersonnel: "Personal Ocupado",
}

// PopulationActivity builds the annual active-population series for the
// metrics present in the pivot: growth factors from the totals row,
// compounding up to 2019, the 2018→2019 bridges, the 2020–2022 extensions
// (units from the fixed 2019 base, personnel via the administrative
// multipliers) and the 2023 reconciliation.
func (e *Engine) PopulationActivity(table *demography.PivotTable, probs demography.ProbabilityTable, filter demography.Filter) *Result {
	res := &Result{Phenomenon: demography.PhenomenonActivity}
	if table.Empty() {
		return res
	}

	factors := e.growth.FromTotals(table)
	b := demography.NewSeriesBuilder(labelsFor(table.Metrics, activityLabels))

	for _, m := range table.Metrics {
		anchors := make([]anchor, len(table.Censuses))
		for i, year := range table.Censuses {
			anchors[i] = anchor{year: year, value: table.Total(demography.ColumnLabel(year, m))}
		}
		compound(b, m, anchors, factors, demography.ProjectionCutoff)

		switch m {
		case demography.MetricUnits:
			e.bridgeUnits2019(b, m, factors)
			res.Warnings = append(res.Warnings, extendUnits(b, m, ExtendFromFixedBase, probs, filter)...)
		case demography.MetricPersonnel:
			bridgePersonnel2019(b, m)
			extendPersonnel(b, m)
		}
	}

	reconcile2023(b, table, table.Metrics)

	res.Factors = factors
	res.Series = b.Build()
	res.Diagnostics = diagnoseAll(res.Series, table.Metrics)
	return res
}

// labelsFor restricts a label map to the selected metrics.
func labelsFor(metrics []demography.Metric, all map[demography.Metric]string) map[demography.Metric]string {
	out := make(map[demography.Metric]string, len(metrics))
	for _, m := range metrics {
		out[m] = all[m]
	}
	return out
}
