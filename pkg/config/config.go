// Package config loads the embeddable engine's configuration from
// environment variables, STARDUST_-prefixed.
//
// Configuration is loaded from environment variables using LoadFromEnv()
// and can be validated with Validate() before use.
//
// Example Usage:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
// Environment Variables:
//   - STARDUST_DATA_DIR
//   - STARDUST_IN_MEMORY
//   - STARDUST_SYNC_WRITES
//   - STARDUST_LOW_MEMORY
//   - STARDUST_MAP_SIZE_BYTES
//   - STARDUST_LOG_LEVEL
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stardust-db/stardust/pkg/graphenv"
)

// Config holds the engine's configuration, organized into logical
// sections: Env and Logging.
//
// Use LoadFromEnv() to create a Config from environment variables.
type Config struct {
	// Env settings (the backing store's directory and tuning)
	Env EnvConfig

	// Logging settings
	Logging LoggingConfig
}

// EnvConfig mirrors graphenv.Options, sourced from the environment.
type EnvConfig struct {
	// DataDir is the on-disk directory for the environment.
	DataDir string
	// InMemory runs the backing store in memory-only mode.
	InMemory bool
	// SyncWrites forces fsync after every commit.
	SyncWrites bool
	// LowMemory trims buffer/cache sizes for constrained environments.
	LowMemory bool
	// MapSizeBytes is the sizing hint passed to graphenv.Open.
	MapSizeBytes int64
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string
}

// ToOptions converts EnvConfig into graphenv.Options.
func (c EnvConfig) ToOptions() graphenv.Options {
	return graphenv.Options{
		Dir:          c.DataDir,
		InMemory:     c.InMemory,
		SyncWrites:   c.SyncWrites,
		LowMemory:    c.LowMemory,
		MapSizeBytes: c.MapSizeBytes,
	}
}

// LoadFromEnv builds a Config from STARDUST_-prefixed environment variables.
func LoadFromEnv() *Config {
	cfg := &Config{}

	cfg.Env.DataDir = getEnv("STARDUST_DATA_DIR", "./data")
	cfg.Env.InMemory = getEnvBool("STARDUST_IN_MEMORY", false)
	cfg.Env.SyncWrites = getEnvBool("STARDUST_SYNC_WRITES", false)
	cfg.Env.LowMemory = getEnvBool("STARDUST_LOW_MEMORY", false)
	cfg.Env.MapSizeBytes = getEnvInt64("STARDUST_MAP_SIZE_BYTES", graphenv.DefaultMapSizeBytes)

	cfg.Logging.Level = strings.ToUpper(getEnv("STARDUST_LOG_LEVEL", "INFO"))

	return cfg
}

// Validate checks the loaded configuration for obviously invalid
// values before the caller opens an Environment with it.
func (c *Config) Validate() error {
	if !c.Env.InMemory && c.Env.DataDir == "" {
		return fmt.Errorf("config: Env.DataDir is required unless Env.InMemory is set")
	}
	if c.Env.MapSizeBytes < 0 {
		return fmt.Errorf("config: Env.MapSizeBytes must be non-negative, got %d", c.Env.MapSizeBytes)
	}
	switch c.Logging.Level {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("config: Logging.Level must be one of DEBUG, INFO, WARN, ERROR, got %q", c.Logging.Level)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}
