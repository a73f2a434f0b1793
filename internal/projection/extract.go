package projection

import (
	"demografia/domain/demography"
)

// RowStep is the positional stride of the derived-phenomenon extractions:
// for the i-th census (0-based) the row at index (i+1)*RowStep approximates
// the cohort born within the most recent five-year band. The convention is a
// fixed row-count heuristic on the generation-indexed pivot, not an actual
// generation-year filter, and is load-bearing.
const RowStep = 5

// extractedRow holds one value per census read at the fixed offset. Values
// are NaN when the offset falls past the pivot (cohort not observable).
type extractedRow struct {
	censuses []int
	values   map[demography.Metric][]float64
}

// extractOffsetRow reads row (i+1)*RowStep for each census at or after
// startYear. Pass startYear 0 to keep every census.
func extractOffsetRow(table *demography.PivotTable, startYear int) extractedRow {
	row := extractedRow{values: make(map[demography.Metric][]float64)}
	for _, year := range table.Censuses {
		if year >= startYear {
			row.censuses = append(row.censuses, year)
		}
	}
	for _, m := range table.Metrics {
		vals := make([]float64, len(row.censuses))
		for i, year := range row.censuses {
			vals[i] = table.ValueAt((i+1)*RowStep, demography.ColumnLabel(year, m))
		}
		row.values[m] = vals
	}
	return row
}

// anchorsFor converts one metric's extracted values into compounder anchors.
func (r extractedRow) anchorsFor(m demography.Metric) []anchor {
	anchors := make([]anchor, len(r.censuses))
	for i, year := range r.censuses {
		anchors[i] = anchor{year: year, value: r.values[m][i]}
	}
	return anchors
}

// observed2023 returns the extracted 2023 value for a metric, if the final
// census is part of the extraction and its value is observable.
func (r extractedRow) observed2023(m demography.Metric) (float64, bool) {
	for i, year := range r.censuses {
		if year == demography.FinalCensusYear {
			v := r.values[m][i]
			if v == v { // not NaN
				return v, true
			}
			return 0, false
		}
	}
	return 0, false
}
