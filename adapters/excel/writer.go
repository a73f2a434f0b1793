// Package excel exports pivots, factor tables and annual series as a
// workbook for offline inspection.
package excel

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"demografia/domain/demography"
)

// Workbook accumulates sheets and serializes the final file.
type Workbook struct {
	file   *excelize.File
	sheets int
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// addSheet creates (or renames the default) sheet and returns its name.
func (w *Workbook) addSheet(name string) (string, error) {
	if w.sheets == 0 {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return "", err
		}
		w.sheets++
		return name, nil
	}
	if _, err := w.file.NewSheet(name); err != nil {
		return "", err
	}
	w.sheets++
	return name, nil
}

// AddPivotSheet writes the pivot: one row per generation (totals row last),
// one column per census/metric pair.
func (w *Workbook) AddPivotSheet(name string, table *demography.PivotTable) error {
	sheet, err := w.addSheet(name)
	if err != nil {
		return err
	}
	if err := w.writeRow(sheet, 1, append([]interface{}{"Año"}, toCells(table.Columns)...)); err != nil {
		return err
	}
	rowNum := 2
	writeValues := func(label interface{}, value func(string) float64) error {
		cells := []interface{}{label}
		for _, col := range table.Columns {
			cells = append(cells, value(col))
		}
		return w.writeRow(sheet, rowNum, cells)
	}
	for _, gen := range table.Generations {
		gen := gen
		if err := writeValues(gen, func(col string) float64 { return table.Value(gen, col) }); err != nil {
			return err
		}
		rowNum++
	}
	if err := writeValues("TOTAL", table.Total); err != nil {
		return err
	}
	return nil
}

// AddFactorSheet writes the growth factor table, metrics as rows and periods
// as columns. Undefined factors are left blank.
func (w *Workbook) AddFactorSheet(name string, factors *demography.GrowthFactorTable, metrics []demography.Metric) error {
	sheet, err := w.addSheet(name)
	if err != nil {
		return err
	}
	if err := w.writeRow(sheet, 1, append([]interface{}{"Métrica"}, toCells(factors.Periods)...)); err != nil {
		return err
	}
	rowNum := 2
	for _, m := range metrics {
		if !factors.HasMetric(m) {
			continue
		}
		cells := []interface{}{m.DisplayName()}
		for _, p := range factors.Periods {
			f := factors.Factor(m, p)
			if math.IsNaN(f) {
				cells = append(cells, "")
			} else {
				cells = append(cells, f)
			}
		}
		if err := w.writeRow(sheet, rowNum, cells); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

// AddSeriesSheet writes an annual series: year, one column per metric label,
// then any derived rates.
func (w *Workbook) AddSeriesSheet(name string, series demography.AnnualSeries, metrics []demography.Metric, rateNames []string) error {
	sheet, err := w.addSheet(name)
	if err != nil {
		return err
	}
	header := []interface{}{"Año"}
	for _, m := range metrics {
		header = append(header, series.Labels[m])
	}
	for _, r := range rateNames {
		header = append(header, r)
	}
	if err := w.writeRow(sheet, 1, header); err != nil {
		return err
	}
	for i, p := range series.Points {
		cells := []interface{}{p.Year}
		for _, m := range metrics {
			if v, ok := p.Value(m); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, "")
			}
		}
		for _, r := range rateNames {
			if v, ok := p.Rates[r]; ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, "")
			}
		}
		if err := w.writeRow(sheet, 2+i, cells); err != nil {
			return err
		}
	}
	return nil
}

// Bytes serializes the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Workbook) writeRow(sheet string, rowNum int, cells []interface{}) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
