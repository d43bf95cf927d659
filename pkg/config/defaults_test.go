package config

import (
	"testing"
	"time"

	"github.com/marmos91/dittokv/pkg/registry"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected log level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_API(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.WriteTimeout != 10*time.Second {
		t.Errorf("Expected default write timeout 10s, got %v", cfg.API.WriteTimeout)
	}
	if cfg.API.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.API.IdleTimeout)
	}
	if !cfg.API.IsEnabled() {
		t.Error("Expected API to be enabled by default")
	}
}

func TestApplyDefaults_Telemetry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Telemetry.Enabled {
		t.Error("Expected telemetry to be disabled by default")
	}
	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default endpoint 'localhost:4317', got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		t.Error("Expected default profile types")
	}
}

func TestApplyDefaults_Registry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Registry.StartConcurrency != registry.DefaultStartConcurrency {
		t.Errorf("Expected default start concurrency %d, got %d",
			registry.DefaultStartConcurrency, cfg.Registry.StartConcurrency)
	}
}

func TestApplyDefaults_NormalizesStoreTypes(t *testing.T) {
	cfg := &Config{
		Stores: map[string]StoreConfig{
			"sessions": {KeyType: "String", ValueType: "BYTES"},
		},
	}
	ApplyDefaults(cfg)

	sc := cfg.Stores["sessions"]
	if sc.KeyType != "string" || sc.ValueType != "bytes" {
		t.Errorf("Expected lowercase type names, got %q/%q", sc.KeyType, sc.ValueType)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging:         LoggingConfig{Level: "WARN", Format: "json", Output: "stderr"},
		ShutdownTimeout: 5 * time.Second,
		Registry:        RegistryConfig{StartConcurrency: 16},
	}
	cfg.API.Port = 9999
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" || cfg.Logging.Format != "json" || cfg.Logging.Output != "stderr" {
		t.Errorf("Explicit logging values were overwritten: %+v", cfg.Logging)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected shutdown timeout 5s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Registry.StartConcurrency != 16 {
		t.Errorf("Expected start concurrency 16, got %d", cfg.Registry.StartConcurrency)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("Expected API port 9999, got %d", cfg.API.Port)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("Expected default config to be valid, got: %v", err)
	}
	if cfg.Stores == nil {
		t.Error("Expected non-nil stores map")
	}
	if !cfg.Telemetry.Insecure {
		t.Error("Expected insecure telemetry transport by default")
	}
}
