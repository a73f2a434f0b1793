package config

import (
	"os"
	"path/filepath"

	"demografia/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds the census input locations
type DataConfig struct {
	// Dir contains the eight NAC_UE_POT_SEC_*.csv census files.
	Dir string
	// ProbabilitiesFile is the PROBABILIDADES.csv path. When empty it is
	// resolved inside Dir.
	ProbabilitiesFile string
}

// DatabaseConfig holds optional persistence settings. An empty URL disables
// run persistence and the service works fully in-memory.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			Dir:               getEnvOrDefault("DATA_DIR", "./data"),
			ProbabilitiesFile: os.Getenv("PROBABILITIES_FILE"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if config.Data.ProbabilitiesFile == "" {
		config.Data.ProbabilitiesFile = filepath.Join(config.Data.Dir, "PROBABILIDADES.csv")
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("DATA_DIR is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
