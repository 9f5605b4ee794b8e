package config

import (
	"os"
	"strconv"
	"strings"

	"normscope/domain/cohort"
	"normscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Filters FilterConfig
	Bands   BandConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig names the spreadsheet the loader reads at startup and how its
// columns are interpreted
type DataConfig struct {
	File   string
	Sheet  string
	Schema cohort.Schema
}

// FilterConfig holds the ranges the dashboard starts with
type FilterConfig struct {
	DefaultAge cohort.Range
	DefaultIQ  cohort.Range
}

// BandConfig points at an optional YAML band table; empty means the built-in
// defaults
type BandConfig struct {
	File string
}

// DefaultFilter assembles the dashboard's starting filter
func (c *Config) DefaultFilter() cohort.Filter {
	return cohort.Filter{Age: c.Filters.DefaultAge, IQ: c.Filters.DefaultIQ}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			File:  os.Getenv("DATA_FILE"),
			Sheet: getEnvOrDefault("DATA_SHEET", "Sheet1"),
			Schema: cohort.Schema{
				AgeColumn:   getEnvOrDefault("AGE_COLUMN", "age"),
				IQColumn:    getEnvOrDefault("IQ_COLUMN", "est_IQ"),
				IDColumn:    getEnvOrDefault("ID_COLUMN", "participant"),
				DropColumns: getEnvListOrDefault("DROP_COLUMNS", []string{"experimenter", "study"}),
			},
		},
		Filters: FilterConfig{
			DefaultAge: cohort.NewRange(
				getEnvFloatOrDefault("AGE_MIN", 18),
				getEnvFloatOrDefault("AGE_MAX", 120),
			),
			DefaultIQ: cohort.NewRange(
				getEnvFloatOrDefault("IQ_MIN", 70),
				getEnvFloatOrDefault("IQ_MAX", 180),
			),
		},
		Bands: BandConfig{
			File: getEnvOrDefault("BANDS_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if err := config.Data.Schema.Validate(); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if err := config.Filters.DefaultAge.Validate(); err != nil {
		return errors.ConfigInvalid("AGE_MIN/AGE_MAX: " + err.Error())
	}
	if err := config.Filters.DefaultIQ.Validate(); err != nil {
		return errors.ConfigInvalid("IQ_MIN/IQ_MAX: " + err.Error())
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
