package config

import (
	"os"
	"testing"
)

func withEnv(t *testing.T, key, val string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, val)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg := LoadFromEnv()
	if cfg.Env.DataDir != "./data" {
		t.Fatalf("expected default DataDir, got %q", cfg.Env.DataDir)
	}
	if cfg.Env.InMemory {
		t.Fatalf("expected InMemory to default false")
	}
	if cfg.Logging.Level != "INFO" {
		t.Fatalf("expected default log level INFO, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	withEnv(t, "STARDUST_DATA_DIR", "/tmp/stardust")
	withEnv(t, "STARDUST_IN_MEMORY", "true")
	withEnv(t, "STARDUST_LOG_LEVEL", "debug")

	cfg := LoadFromEnv()
	if cfg.Env.DataDir != "/tmp/stardust" {
		t.Fatalf("expected overridden DataDir, got %q", cfg.Env.DataDir)
	}
	if !cfg.Env.InMemory {
		t.Fatalf("expected InMemory true")
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Fatalf("expected log level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsEmptyDataDirWithoutInMemory(t *testing.T) {
	cfg := &Config{Env: EnvConfig{DataDir: "", InMemory: false}, Logging: LoggingConfig{Level: "INFO"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty DataDir")
	}
}

func TestValidateAllowsEmptyDataDirWithInMemory(t *testing.T) {
	cfg := &Config{Env: EnvConfig{DataDir: "", InMemory: true}, Logging: LoggingConfig{Level: "INFO"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := &Config{Env: EnvConfig{InMemory: true}, Logging: LoggingConfig{Level: "VERBOSE"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for unknown log level")
	}
}
