package ui

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"demografia/app"
	"demografia/domain/demography"
	"demografia/internal/errors"
	"demografia/internal/projection"
)

// requestFromQuery builds the service request from query parameters.
// Absent entity/sector/stratum parameters mean the national/all sentinels;
// absent metric flags default to units only, matching the source dashboard.
func requestFromQuery(r *http.Request) app.Request {
	q := r.URL.Query()
	req := app.Request{
		Filter: demography.Filter{
			Entity:  q.Get("entidad"),
			Sector:  q.Get("sector"),
			Stratum: q.Get("tam"),
		},
		Metrics: demography.MetricSet{
			Units:     boolParam(q.Get("ue"), true),
			Personnel: boolParam(q.Get("po"), false),
		},
	}
	return req
}

func boolParam(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// seriesResponse is the JSON envelope for one phenomenon.
type seriesResponse struct {
	Phenomenon  demography.Phenomenon                        `json:"phenomenon"`
	Lag         int                                          `json:"lag,omitempty"`
	Series      demography.AnnualSeries                      `json:"series"`
	Factors     map[string]map[string]float64                `json:"factors,omitempty"`
	Diagnostics map[demography.Metric]projection.Diagnostics `json:"diagnostics,omitempty"`
	Warnings    []string                                     `json:"warnings,omitempty"`
}

func toSeriesResponse(res *projection.Result) seriesResponse {
	return seriesResponse{
		Phenomenon:  res.Phenomenon,
		Lag:         res.Lag,
		Series:      res.Series,
		Factors:     factorMap(res.Factors),
		Diagnostics: res.Diagnostics,
		Warnings:    res.Warnings,
	}
}

// factorMap flattens the factor table for JSON, omitting undefined factors
// (NaN is not representable in JSON).
func factorMap(factors *demography.GrowthFactorTable) map[string]map[string]float64 {
	if factors == nil || factors.Empty() {
		return nil
	}
	out := make(map[string]map[string]float64)
	for _, m := range []demography.Metric{demography.MetricUnits, demography.MetricPersonnel} {
		if !factors.HasMetric(m) {
			continue
		}
		row := make(map[string]float64)
		for _, p := range factors.Periods {
			if f := factors.Factor(m, p); !math.IsNaN(f) {
				row[p] = f
			}
		}
		out[m.DisplayName()] = row
	}
	return out
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"warnings": a.service.LoadWarnings(),
	})
}

func (a *App) handleOptions(w http.ResponseWriter, r *http.Request) {
	strata := make([]string, 0, demography.StratumCount+1)
	strata = append(strata, demography.StratumAll)
	for n := 1; n <= demography.StratumCount; n++ {
		if label, ok := demography.StratumLabel(n); ok {
			strata = append(strata, label)
		}
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"entidades": a.service.Entities(),
		"sectores":  a.service.Sectors(),
		"tamanos":   strata,
		"lags":      demography.SurvivalLags,
	})
}

func (a *App) handleActivity(w http.ResponseWriter, r *http.Request) {
	res, err := a.service.PopulationActivity(requestFromQuery(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toSeriesResponse(res))
}

func (a *App) handleNatality(w http.ResponseWriter, r *http.Request) {
	res, err := a.service.Natality(requestFromQuery(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toSeriesResponse(res))
}

func (a *App) handleSurvival(w http.ResponseWriter, r *http.Request) {
	lag, err := strconv.Atoi(chi.URLParam(r, "lag"))
	if err != nil {
		a.writeError(w, errors.InvalidInput("survival lag must be an integer"))
		return
	}
	res, err := a.service.Survival(requestFromQuery(r), lag)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toSeriesResponse(res))
}

func (a *App) handleMortality(w http.ResponseWriter, r *http.Request) {
	res, err := a.service.Mortality(requestFromQuery(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toSeriesResponse(res))
}

func (a *App) handlePivot(w http.ResponseWriter, r *http.Request) {
	table, err := a.service.Pivot(requestFromQuery(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	rows := make([]map[string]interface{}, 0, table.RowCount())
	appendRow := func(label interface{}, value func(string) float64) {
		row := map[string]interface{}{"anio": label}
		for _, col := range table.Columns {
			row[col] = value(col)
		}
		rows = append(rows, row)
	}
	for _, gen := range table.Generations {
		gen := gen
		appendRow(gen, func(col string) float64 { return table.Value(gen, col) })
	}
	appendRow("TOTAL", table.Total)
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": table.Columns,
		"rows":    rows,
	})
}

func (a *App) handleFactors(w http.ResponseWriter, r *http.Request) {
	res, err := a.service.PopulationActivity(requestFromQuery(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"periods": res.Factors.Periods,
		"factors": factorMap(res.Factors),
	})
}

func (a *App) handleSaveRun(w http.ResponseWriter, r *http.Request) {
	req := requestFromQuery(r)
	res, err := a.resultForPhenomenon(req, r.URL.Query().Get("fenomeno"), r.URL.Query().Get("lag"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	run, err := a.service.SaveRun(r.Context(), req, res)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, run)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r.URL.Query().Get("limit"), 20)
	offset := intParam(r.URL.Query().Get("offset"), 0)
	runs, err := a.service.Runs(r.Context(), limit, offset)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, runs)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.service.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, run)
}

// resultForPhenomenon dispatches on the phenomenon name used by the API.
func (a *App) resultForPhenomenon(req app.Request, phenomenon, lag string) (*projection.Result, error) {
	switch demography.Phenomenon(phenomenon) {
	case demography.PhenomenonActivity, "":
		return a.service.PopulationActivity(req)
	case demography.PhenomenonNatality:
		return a.service.Natality(req)
	case demography.PhenomenonSurvival:
		k := intParam(lag, 5)
		return a.service.Survival(req, k)
	case demography.PhenomenonMortality:
		return a.service.Mortality(req)
	default:
		return nil, errors.InvalidInput("unknown phenomenon: " + phenomenon)
	}
}

func intParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

// writeError maps the pipeline's error taxonomy onto HTTP statuses.
func (a *App) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeEmptyMetricSelection, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeEmptyFilterResult, errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeConfigInvalid:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{
		"code":  code,
		"error": err.Error(),
	})
}
