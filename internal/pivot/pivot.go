// Package pivot builds the wide (generation × census) aggregation that every
// downstream projection reads from.
package pivot

import (
	"sort"

	"demografia/domain/demography"
	"demografia/internal/errors"
)

// Builder aggregates long-format census observations into a PivotTable.
type Builder struct{}

// NewBuilder creates a pivot builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build groups the observations by (generation year, census year), sums the
// selected metrics, pivots census years into "CE {year} - {METRIC}" columns
// and appends the trailing totals row. Pure function of its inputs.
//
// An empty metric selection is an error condition the caller surfaces to the
// user; an empty observation slice yields an EmptyFilterResult error.
func (b *Builder) Build(observations []demography.CensusObservation, metrics demography.MetricSet) (*demography.PivotTable, error) {
	if metrics.Empty() {
		return nil, errors.EmptyMetricSelection()
	}
	if len(observations) == 0 {
		return nil, errors.EmptyFilterResult("no observations match the selected filters")
	}

	selected := metrics.List()
	generationSet := make(map[int]struct{})
	censusSet := make(map[int]struct{})
	cells := make(map[int]map[string]float64)

	for _, obs := range observations {
		generationSet[obs.GenerationYear] = struct{}{}
		censusSet[obs.CensusYear] = struct{}{}
		row := cells[obs.GenerationYear]
		if row == nil {
			row = make(map[string]float64)
			cells[obs.GenerationYear] = row
		}
		for _, m := range selected {
			row[demography.ColumnLabel(obs.CensusYear, m)] += metricValue(obs, m)
		}
	}

	generations := setToSorted(generationSet)
	censuses := setToSorted(censusSet)

	// Dense fill: every generation row carries every column, zero when the
	// census never observed that generation.
	for _, gen := range generations {
		for _, c := range censuses {
			for _, m := range selected {
				col := demography.ColumnLabel(c, m)
				if _, ok := cells[gen][col]; !ok {
					cells[gen][col] = 0
				}
			}
		}
	}

	return demography.NewPivotTable(generations, censuses, selected, cells), nil
}

func metricValue(obs demography.CensusObservation, m demography.Metric) float64 {
	if m == demography.MetricPersonnel {
		return obs.Personnel
	}
	return obs.Units
}

func setToSorted(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Filter applies the entity/sector/stratum predicates to the long table.
func Filter(observations []demography.CensusObservation, f demography.Filter) []demography.CensusObservation {
	var out []demography.CensusObservation
	for _, obs := range observations {
		if f.Matches(obs) {
			out = append(out, obs)
		}
	}
	return out
}
