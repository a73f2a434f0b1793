// Package ui exposes the projection service over HTTP: JSON series
// endpoints, CSV and workbook downloads and the methodology page.
package ui

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"demografia/app"
	"demografia/internal"
)

//go:embed docs/*
var embeddedDocs embed.FS

// App represents the HTTP application.
type App struct {
	router  *chi.Mux
	service *app.ProjectionService
	logger  *internal.Logger
}

// NewApp creates the HTTP application around a loaded projection service.
func NewApp(service *app.ProjectionService, logger *internal.Logger) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/metodologia", a.handleMethodology)

	// Series endpoints
	a.router.Get("/api/options", a.handleOptions)
	a.router.Get("/api/poblacion-activa", a.handleActivity)
	a.router.Get("/api/natalidad", a.handleNatality)
	a.router.Get("/api/supervivencia/{lag}", a.handleSurvival)
	a.router.Get("/api/mortalidad", a.handleMortality)

	// Inspection tables
	a.router.Get("/api/pivote", a.handlePivot)
	a.router.Get("/api/factores", a.handleFactors)

	// Downloads
	a.router.Get("/download/pivote.csv", a.handlePivotCSV)
	a.router.Get("/download/serie/{phenomenon}.csv", a.handleSeriesCSV)
	a.router.Get("/download/reporte.xlsx", a.handleWorkbook)

	// Persisted runs
	a.router.Post("/api/runs", a.handleSaveRun)
	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
}

// Router returns the configured handler.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server.
func (a *App) Start(port string) error {
	a.logger.Info("listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
