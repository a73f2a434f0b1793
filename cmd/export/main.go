// Command export computes every demographic series for one filter
// combination and writes the report workbook, without running the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"demografia/adapters/censuscsv"
	"demografia/adapters/excel"
	"demografia/app"
	"demografia/domain/demography"
	"demografia/internal"
	"demografia/internal/config"
	"demografia/internal/projection"
)

func main() {
	_ = godotenv.Load()

	entity := flag.String("entidad", demography.EntityNational, "entidad federativa")
	sector := flag.String("sector", demography.SectorAll, "sector")
	stratum := flag.String("tam", demography.StratumAll, "estrato de personal ocupado")
	personnel := flag.Bool("po", true, "incluir personal ocupado")
	out := flag.String("out", "reporte_demografia.xlsx", "output file")
	flag.Parse()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	service, err := app.NewProjectionService(
		context.Background(),
		censuscsv.NewLoader(cfg.Data.Dir),
		censuscsv.NewProbabilityLoader(cfg.Data.ProbabilitiesFile),
		app.Options{Logger: logger},
	)
	if err != nil {
		log.Fatalf("failed to load census data: %v", err)
	}

	req := app.Request{
		Filter:  demography.Filter{Entity: *entity, Sector: *sector, Stratum: *stratum},
		Metrics: demography.MetricSet{Units: true, Personnel: *personnel},
	}

	if err := writeReport(service, req, *out); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	logger.Info("wrote %s", *out)
}

func writeReport(service *app.ProjectionService, req app.Request, out string) error {
	table, err := service.Pivot(req)
	if err != nil {
		return err
	}
	activity, err := service.PopulationActivity(req)
	if err != nil {
		return err
	}
	natality, err := service.Natality(req)
	if err != nil {
		return err
	}

	metrics := req.Metrics.List()
	wb := excel.NewWorkbook()
	if err := wb.AddPivotSheet("Pivote", table); err != nil {
		return err
	}
	if err := wb.AddFactorSheet("Factores", activity.Factors, metrics); err != nil {
		return err
	}
	if err := wb.AddSeriesSheet("Población activa", activity.Series, metrics, nil); err != nil {
		return err
	}
	if err := wb.AddSeriesSheet("Natalidad", natality.Series, metrics, nil); err != nil {
		return err
	}
	for _, k := range demography.SurvivalLags {
		survival, err := service.Survival(req, k)
		if err != nil {
			return err
		}
		rates := []string{projection.RateSurvivalProbability, projection.RateYearOverYearGrowth}
		if err := wb.AddSeriesSheet(fmt.Sprintf("Supervivencia %d", k), survival.Series, metrics, rates); err != nil {
			return err
		}
	}
	mortality, err := service.Mortality(req)
	if err != nil {
		return err
	}
	if err := wb.AddSeriesSheet("Mortalidad", mortality.Series, []demography.Metric{demography.MetricUnits}, []string{projection.RateMortality}); err != nil {
		return err
	}

	data, err := wb.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
