// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	SnapshotPath string // Path to the serialized projections artifact (always absolute)
	LogLevel     string
	Port         int
	DevMode      bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Resolve the artifact path to an absolute path so error reports are
	// unambiguous regardless of the working directory.
	snapshotPath := getEnv("SNAPSHOT_PATH", "data/projections.msgpack")
	absSnapshotPath, err := filepath.Abs(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot path: %w", err)
	}

	cfg := &Config{
		SnapshotPath: absSnapshotPath,
		Port:         getEnvAsInt("GO_PORT", 8080),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions
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
