package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("PROBABILITIES_FILE", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Data.Dir != "./data" {
		t.Errorf("expected default data dir, got %s", cfg.Data.Dir)
	}
	if cfg.Data.ProbabilitiesFile != filepath.Join("./data", "PROBABILIDADES.csv") {
		t.Errorf("probabilities file should resolve inside the data dir, got %s", cfg.Data.ProbabilitiesFile)
	}
	if cfg.Database.URL != "" {
		t.Errorf("database URL should default to empty, got %s", cfg.Database.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DATA_DIR", "/srv/censos")
	t.Setenv("PROBABILITIES_FILE", "/srv/otros/PROB.csv")
	t.Setenv("DATABASE_URL", "postgres://localhost/demografia")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("port override ignored: %s", cfg.Server.Port)
	}
	if cfg.Data.ProbabilitiesFile != "/srv/otros/PROB.csv" {
		t.Errorf("explicit probabilities file ignored: %s", cfg.Data.ProbabilitiesFile)
	}
	if cfg.Database.URL != "postgres://localhost/demografia" {
		t.Errorf("database URL ignored: %s", cfg.Database.URL)
	}
}
