package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Intake IntakeConfig
	Watch  WatchConfig
}

// IntakeConfig holds settings shared by the batch and watch binaries.
type IntakeConfig struct {
	MessagesDir string
	CatalogPath string
	OutputDir   string
	// ItemOrder is "pattern" (historical, grouped by recognizer) or
	// "document" (sorted by position in the message).
	ItemOrder string
	// MatchCutoff is the inclusive similarity threshold for fuzzy
	// catalog suggestions.
	MatchCutoff float64
}

// WatchConfig holds settings for the watch-mode daemon.
type WatchConfig struct {
	Workers   int
	QueueSize int
	Debounce  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Intake: IntakeConfig{
			MessagesDir: getEnv("MESSAGES_DIR", "./data"),
			CatalogPath: getEnv("CATALOG_PATH", "./data/Product Catalog.csv"),
			OutputDir:   getEnv("OUTPUT_DIR", "./output"),
			ItemOrder:   getEnv("ITEM_ORDER", "pattern"),
			MatchCutoff: getEnvAsFloat64("MATCH_CUTOFF", 0.7),
		},
		Watch: WatchConfig{
			Workers:   getEnvAsInt("WATCH_WORKERS", 4),
			QueueSize: getEnvAsInt("WATCH_QUEUE_SIZE", 256),
			Debounce:  getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
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

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Intake.MessagesDir == "" {
		return NewAppError("CONFIG_ERROR", "MESSAGES_DIR is required", ErrInvalidInput)
	}
	if c.Intake.CatalogPath == "" {
		return NewAppError("CONFIG_ERROR", "CATALOG_PATH is required", ErrInvalidInput)
	}
	if c.Intake.MatchCutoff < 0 || c.Intake.MatchCutoff > 1 {
		return NewAppError("CONFIG_ERROR", "MATCH_CUTOFF must be in [0, 1]", ErrInvalidInput)
	}
	return nil
}
