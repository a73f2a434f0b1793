package projection

import (
	"math"
	"testing"

	"demografia/domain/demography"
)

// offsetPivot builds a pivot with explicit generation rows so the positional
// extractions (row 5, 10, 15 per census) land on real cohort rows.
func offsetPivot(censuses []int, generationCount int, values map[demography.Metric]map[int]map[int]float64) *demography.PivotTable {
	generations := make([]int, generationCount)
	for i := range generations {
		generations[i] = 1980 + i
	}
	var metrics []demography.Metric
	for _, m := range []demography.Metric{demography.MetricUnits, demography.MetricPersonnel} {
		if _, ok := values[m]; ok {
			metrics = append(metrics, m)
		}
	}
	cells := make(map[int]map[string]float64)
	for _, gen := range generations {
		cells[gen] = make(map[string]float64)
	}
	for _, m := range metrics {
		for _, year := range censuses {
			col := demography.ColumnLabel(year, m)
			for rowIdx, v := range values[m][year] {
				cells[generations[rowIdx]][col] = v
			}
		}
	}
	return demography.NewPivotTable(generations, censuses, metrics, cells)
}

func TestExtractOffsetRow(t *testing.T) {
	table := offsetPivot([]int{2018, 2023}, 12, map[demography.Metric]map[int]map[int]float64{
		demography.MetricUnits: {
			2018: {5: 40, 10: 77}, // row 5 is the 2018 extraction
			2023: {5: 33, 10: 60}, // row 10 is the 2023 extraction
		},
	})

	row := extractOffsetRow(table, 0)
	if len(row.censuses) != 2 {
		t.Fatalf("expected both censuses, got %v", row.censuses)
	}
	vals := row.values[demography.MetricUnits]
	if vals[0] != 40 {
		t.Errorf("first census reads positional row 5, got %f", vals[0])
	}
	if vals[1] != 60 {
		t.Errorf("second census reads positional row 10, got %f", vals[1])
	}
}

func TestExtractOffsetRow_PastPivotIsNaN(t *testing.T) {
	// Three censuses need rows 5, 10 and 15; with 12 generation rows the
	// third extraction falls past the table.
	table := offsetPivot([]int{2013, 2018, 2023}, 12, map[demography.Metric]map[int]map[int]float64{
		demography.MetricUnits: {2013: {5: 10}, 2018: {10: 20}},
	})

	row := extractOffsetRow(table, 0)
	vals := row.values[demography.MetricUnits]
	if !math.IsNaN(vals[2]) {
		t.Errorf("extraction past the pivot must be NaN, got %f", vals[2])
	}
}

func TestExtractOffsetRow_StartYearFilter(t *testing.T) {
	table := offsetPivot([]int{1988, 1993, 1998}, 12, map[demography.Metric]map[int]map[int]float64{
		demography.MetricUnits: {1993: {5: 1}, 1998: {10: 2}},
	})

	row := extractOffsetRow(table, 1993)
	if len(row.censuses) != 2 || row.censuses[0] != 1993 {
		t.Fatalf("start-year filter should drop 1988, got %v", row.censuses)
	}
	// Offsets are recomputed over the surviving censuses: 1993 reads row 5,
	// 1998 reads row 10.
	vals := row.values[demography.MetricUnits]
	if vals[0] != 1 || vals[1] != 2 {
		t.Errorf("offsets must restart after filtering, got %v", vals)
	}
}

func TestNatality_CompoundedExtension(t *testing.T) {
	table := offsetPivot([]int{2018, 2023}, 12, map[demography.Metric]map[int]map[int]float64{
		demography.MetricUnits: {
			2018: {5: 40},
			2023: {10: 60},
		},
	})
	probs := nationalProbs(map[int]float64{2020: 0.9, 2021: 0.8, 2022: 0.7})

	res := NewEngine().Natality(table, probs, demography.Filter{})

	// Factors come from the extracted row, not the totals row.
	f := math.Pow(60.0/40.0, 0.2)
	approx(t, res.Factors.Factor(demography.MetricUnits, "2018-2023"), f, "extracted factor")

	approx(t, mustValue(t, res.Series, 2018, demography.MetricUnits), 40, "2018 extraction")

	n2019 := 40 * f // single defined factor, so the mean is the factor itself
	approx(t, mustValue(t, res.Series, 2019, demography.MetricUnits), n2019, "2019 bridge")

	// Unlike population activity, the extension compounds year over year.
	approx(t, mustValue(t, res.Series, 2020, demography.MetricUnits), n2019*0.9, "2020 compounded")
	approx(t, mustValue(t, res.Series, 2021, demography.MetricUnits), n2019*0.9*0.8, "2021 compounded")
	approx(t, mustValue(t, res.Series, 2022, demography.MetricUnits), n2019*0.9*0.8*0.7, "2022 compounded")

	// 2023 is the extracted census observation.
	approx(t, mustValue(t, res.Series, 2023, demography.MetricUnits), 60, "2023 observed")
}

func TestNatality_UnobservableCohortLeavesGap(t *testing.T) {
	table := offsetPivot([]int{2013, 2018, 2023}, 12, map[demography.Metric]map[int]map[int]float64{
		demography.MetricUnits: {2013: {5: 10}, 2018: {10: 20}},
	})

	res := NewEngine().Natality(table, nil, demography.Filter{})

	if _, ok := res.Series.ValueAt(2013, demography.MetricUnits); !ok {
		t.Error("observable extractions should still project")
	}
	// The 2023 extraction is NaN: no reconciliation write, no gap filler.
	if _, ok := res.Series.ValueAt(2023, demography.MetricUnits); ok {
		t.Error("an unobservable 2023 cohort must stay absent")
	}
}
