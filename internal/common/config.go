package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Extraction ExtractionConfig
	Reconcile  ReconcileConfig
	Export     ExportConfig
	History    HistoryConfig
}

// ExtractionConfig controls which extraction paths run per document.
type ExtractionConfig struct {
	ExtractTables bool   // run table normalization (and text fallback)
	ExtractText   bool   // run field recognition (and text fallback)
	RulesPath     string // optional JSON rules file for field recognition
}

// ReconcileConfig holds the duplicate-detection tolerances.
// The effective tolerance is max(AbsTolerance, RelTolerance * larger amount).
// Defaults follow the current product guidance (0.01 absolute, 0.1%
// relative); treat them as provisional until confirmed.
type ReconcileConfig struct {
	AbsTolerance float64
	RelTolerance float64
}

// ExportConfig holds workbook rendering bounds.
type ExportConfig struct {
	TextExcerptLimit int // character bound for the Text Data excerpt column
}

// HistoryConfig holds the run-history store location.
type HistoryConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			ExtractTables: getEnvAsBool("EXTRACT_TABLES", true),
			ExtractText:   getEnvAsBool("EXTRACT_TEXT", true),
			RulesPath:     getEnv("FIELD_RULES_PATH", ""),
		},
		Reconcile: ReconcileConfig{
			AbsTolerance: getEnvAsFloat("AMOUNT_ABS_TOLERANCE", 0.01),
			RelTolerance: getEnvAsFloat("AMOUNT_REL_TOLERANCE", 0.001),
		},
		Export: ExportConfig{
			TextExcerptLimit: getEnvAsInt("TEXT_EXCERPT_LIMIT", 1000),
		},
		History: HistoryConfig{
			DBPath: getEnv("HISTORY_DB_PATH", "pdf2xlsx-history.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Export.TextExcerptLimit <= 0 {
		return NewAppError("CONFIG_ERROR", "TEXT_EXCERPT_LIMIT must be positive", ErrInvalidInput)
	}
	if c.Reconcile.AbsTolerance < 0 || c.Reconcile.RelTolerance < 0 {
		return NewAppError("CONFIG_ERROR", "amount tolerances must not be negative", ErrInvalidInput)
	}
	return nil
}
