package demography

import "math"

// PivotTable is the wide aggregation of the long table: one row per
// generation year plus a synthetic totals row, one column per
// (census year, metric) pair labeled "CE {year} - {METRIC}".
type PivotTable struct {
	// Generations holds the real row keys ascending, totals row excluded.
	Generations []int
	// Censuses holds the census years present, ascending.
	Censuses []int
	// Metrics holds the metrics included, canonical order.
	Metrics []Metric
	// Columns holds the ordered column labels (censuses × metrics).
	Columns []string

	cells map[int]map[string]float64
	// totals lives outside the generation cell map: generation year 0 is a
	// legal row key and must never collide with the synthetic row.
	totals map[string]float64
}

// NewPivotTable builds a pivot from the populated cell map. The totals row is
// computed here so the invariant (the totals row equals the column-wise sum
// over every generation row) holds by construction.
func NewPivotTable(generations, censuses []int, metrics []Metric, cells map[int]map[string]float64) *PivotTable {
	t := &PivotTable{
		Generations: generations,
		Censuses:    censuses,
		Metrics:     metrics,
		cells:       cells,
	}
	for _, m := range metrics {
		for _, c := range censuses {
			t.Columns = append(t.Columns, ColumnLabel(c, m))
		}
	}
	t.totals = make(map[string]float64, len(t.Columns))
	for _, gen := range generations {
		for _, col := range t.Columns {
			t.totals[col] += cells[gen][col]
		}
	}
	if t.cells == nil {
		t.cells = make(map[int]map[string]float64)
	}
	return t
}

// Empty reports whether the pivot has no data columns.
func (t *PivotTable) Empty() bool {
	return t == nil || len(t.Columns) == 0
}

// Value returns the cell for a generation row and column label, 0 when the
// cell was never populated (the pivot is dense with fill-value 0, matching
// the source aggregation).
func (t *PivotTable) Value(generation int, column string) float64 {
	return t.cells[generation][column]
}

// Total returns the totals-row entry for a column.
func (t *PivotTable) Total(column string) float64 {
	return t.totals[column]
}

// RowCount is the number of positional rows: real generations plus the
// trailing totals row, mirroring the source table layout.
func (t *PivotTable) RowCount() int {
	return len(t.Generations) + 1
}

// ValueAt reads a cell by positional row index in generation order, with the
// totals row at the final index. Out-of-range rows yield NaN, which the
// derived-phenomenon extractions propagate as "cohort not observable".
func (t *PivotTable) ValueAt(row int, column string) float64 {
	switch {
	case row >= 0 && row < len(t.Generations):
		return t.cells[t.Generations[row]][column]
	case row == len(t.Generations):
		return t.totals[column]
	default:
		return math.NaN()
	}
}

// HasColumn reports whether the column label exists in the pivot.
func (t *PivotTable) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Observed2023 returns the directly observed final-census value for a metric
// and whether the 2023 column exists. This value always wins over any
// compounded estimate.
func (t *PivotTable) Observed2023(m Metric) (float64, bool) {
	col := ColumnLabel(FinalCensusYear, m)
	if !t.HasColumn(col) {
		return 0, false
	}
	return t.Total(col), true
}
