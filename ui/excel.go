package ui

import (
	"fmt"
	"net/http"

	"demografia/adapters/excel"
	"demografia/domain/demography"
	"demografia/internal/projection"
)

// handleWorkbook builds one workbook with the pivot, the growth factors and
// every phenomenon's series for the requested filters.
func (a *App) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	req := requestFromQuery(r)

	table, err := a.service.Pivot(req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	activity, err := a.service.PopulationActivity(req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	natality, err := a.service.Natality(req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	wb := excel.NewWorkbook()
	metrics := req.Metrics.List()
	if err := wb.AddPivotSheet("Pivote", table); err != nil {
		a.writeError(w, err)
		return
	}
	if err := wb.AddFactorSheet("Factores", activity.Factors, metrics); err != nil {
		a.writeError(w, err)
		return
	}
	if err := wb.AddSeriesSheet("Población activa", activity.Series, metrics, nil); err != nil {
		a.writeError(w, err)
		return
	}
	if err := wb.AddSeriesSheet("Natalidad", natality.Series, metrics, nil); err != nil {
		a.writeError(w, err)
		return
	}
	for _, k := range demography.SurvivalLags {
		survival, err := a.service.Survival(req, k)
		if err != nil {
			a.writeError(w, err)
			return
		}
		rates := []string{projection.RateSurvivalProbability, projection.RateYearOverYearGrowth}
		if err := wb.AddSeriesSheet(fmt.Sprintf("Supervivencia %d", k), survival.Series, metrics, rates); err != nil {
			a.writeError(w, err)
			return
		}
	}
	if req.Metrics.Units {
		mortality, err := a.service.Mortality(req)
		if err != nil {
			a.writeError(w, err)
			return
		}
		rates := []string{projection.RateMortality}
		if err := wb.AddSeriesSheet("Mortalidad", mortality.Series, []demography.Metric{demography.MetricUnits}, rates); err != nil {
			a.writeError(w, err)
			return
		}
	}

	data, err := wb.Bytes()
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="reporte_demografia.xlsx"`)
	w.Write(data)
}
