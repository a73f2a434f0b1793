package ui

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"demografia/domain/demography"
	"demografia/internal/projection"
)

func (a *App) handlePivotCSV(w http.ResponseWriter, r *http.Request) {
	table, err := a.service.Pivot(requestFromQuery(r))
	if err != nil {
		a.writeError(w, err)
		return
	}

	setCSVHeaders(w, "pivote_demografia.csv")
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write(append([]string{"Año"}, table.Columns...))
	writeRow := func(label string, value func(string) float64) {
		row := []string{label}
		for _, col := range table.Columns {
			row = append(row, formatFloat(value(col)))
		}
		cw.Write(row)
	}
	for _, gen := range table.Generations {
		gen := gen
		writeRow(strconv.Itoa(gen), func(col string) float64 { return table.Value(gen, col) })
	}
	writeRow("TOTAL", table.Total)
}

func (a *App) handleSeriesCSV(w http.ResponseWriter, r *http.Request) {
	phenomenon := chi.URLParam(r, "phenomenon")
	req := requestFromQuery(r)
	res, err := a.resultForPhenomenon(req, phenomenon, r.URL.Query().Get("lag"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	setCSVHeaders(w, fmt.Sprintf("serie_%s.csv", res.Phenomenon))
	cw := csv.NewWriter(w)
	defer cw.Flush()

	metrics := req.Metrics.List()
	rateNames := rateColumnsFor(res)

	header := []string{"Año"}
	if res.Lag > 0 {
		header = append(header, "Año(-t)")
	}
	for _, m := range metrics {
		if label, ok := res.Series.Labels[m]; ok {
			header = append(header, label)
		}
	}
	header = append(header, rateNames...)
	cw.Write(header)

	for _, p := range res.Series.Points {
		row := []string{strconv.Itoa(p.Year)}
		if res.Lag > 0 {
			// The birth-year column is always year minus the lag.
			row = append(row, strconv.Itoa(p.Year-res.Lag))
		}
		for _, m := range metrics {
			if _, ok := res.Series.Labels[m]; !ok {
				continue
			}
			if v, found := p.Value(m); found {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		for _, name := range rateNames {
			if v, found := p.Rates[name]; found {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
}

// rateColumnsFor lists the derived-rate columns a phenomenon carries.
func rateColumnsFor(res *projection.Result) []string {
	switch res.Phenomenon {
	case demography.PhenomenonSurvival:
		return []string{projection.RateSurvivalProbability, projection.RateYearOverYearGrowth}
	case demography.PhenomenonMortality:
		return []string{projection.RateMortality}
	default:
		return nil
	}
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
