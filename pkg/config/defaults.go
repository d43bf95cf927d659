package config

import (
	"strings"
	"time"

	"github.com/marmos91/dittokv/pkg/registry"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	applyAPIDefaults(cfg)
	applyRegistryDefaults(&cfg.Registry)
	applyStoreDefaults(cfg)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}

	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// applyAPIDefaults sets API server defaults.
func applyAPIDefaults(cfg *Config) {
	api := &cfg.API
	if api.Port == 0 {
		api.Port = 8080
	}
	if api.ReadTimeout == 0 {
		api.ReadTimeout = 10 * time.Second
	}
	if api.WriteTimeout == 0 {
		api.WriteTimeout = 10 * time.Second
	}
	if api.IdleTimeout == 0 {
		api.IdleTimeout = 60 * time.Second
	}
}

func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.StartConcurrency == 0 {
		cfg.StartConcurrency = registry.DefaultStartConcurrency
	}
}

// applyStoreDefaults normalizes store type names.
func applyStoreDefaults(cfg *Config) {
	for alias, sc := range cfg.Stores {
		sc.KeyType = strings.ToLower(sc.KeyType)
		sc.ValueType = strings.ToLower(sc.ValueType)
		cfg.Stores[alias] = sc
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
		Stores: map[string]StoreConfig{},
	}

	ApplyDefaults(cfg)
	return cfg
}
