package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/dittokv/internal/bytesize"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
api:
  port: 9000
  read_timeout: 5s
shutdown_timeout: 1m
heap:
  memory_limit: 2GiB
registry:
  start_concurrency: 8
stores:
  sessions:
    key_type: string
    value_type: bytes
    listeners: [logging]
    heap:
      concurrency: 64
      hasher: xxhash
  counters:
    key_type: INT64
    value_type: int64
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format json, got %q", cfg.Logging.Format)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("Expected API port 9000, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 5*time.Second {
		t.Errorf("Expected read timeout 5s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.WriteTimeout != 10*time.Second {
		t.Errorf("Expected default write timeout 10s, got %v", cfg.API.WriteTimeout)
	}
	if cfg.ShutdownTimeout != time.Minute {
		t.Errorf("Expected shutdown timeout 1m, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Heap.MemoryLimit != 2*bytesize.GiB {
		t.Errorf("Expected memory limit 2GiB, got %v", cfg.Heap.MemoryLimit)
	}
	if cfg.Registry.StartConcurrency != 8 {
		t.Errorf("Expected start concurrency 8, got %d", cfg.Registry.StartConcurrency)
	}

	if len(cfg.Stores) != 2 {
		t.Fatalf("Expected 2 stores, got %d", len(cfg.Stores))
	}
	sessions := cfg.Stores["sessions"]
	if sessions.KeyType != "string" || sessions.ValueType != "bytes" {
		t.Errorf("Unexpected sessions types %q/%q", sessions.KeyType, sessions.ValueType)
	}
	if len(sessions.Listeners) != 1 || sessions.Listeners[0] != "logging" {
		t.Errorf("Unexpected sessions listeners %v", sessions.Listeners)
	}
	if cfg.Stores["counters"].KeyType != "int64" {
		t.Errorf("Expected normalized key type int64, got %q", cfg.Stores["counters"].KeyType)
	}

	opts, err := DecodeHeapOptions(sessions.Heap)
	if err != nil {
		t.Fatalf("DecodeHeapOptions failed: %v", err)
	}
	if opts.Concurrency != 64 || opts.Hasher != HasherXXHash {
		t.Errorf("Unexpected heap options %+v", opts)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: INFO
`)
	t.Setenv("DITTOKV_LOGGING_LEVEL", "WARN")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected env override WARN, got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level INFO, got %q", cfg.Logging.Level)
	}
	if len(cfg.Stores) != 0 {
		t.Errorf("Expected no stores, got %d", len(cfg.Stores))
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
stores:
  blobs:
    key_type: bytes
    value_type: string
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got: %v", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "shutdown_timeout: soon\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for invalid duration")
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := MustLoad(path)
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "dittokv init") {
		t.Errorf("Expected init instructions, got: %v", err)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "DEBUG"
	cfg.Heap.MemoryLimit = 512 * bytesize.MiB
	cfg.Stores["sessions"] = StoreConfig{
		KeyType:   "string",
		ValueType: "string",
		Listeners: []string{"metrics"},
		Heap:      map[string]any{"concurrency": 32},
	}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected file mode 0600, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Logging.Level != "DEBUG" {
		t.Errorf("Expected level DEBUG, got %q", loaded.Logging.Level)
	}
	if loaded.Heap.MemoryLimit != 512*bytesize.MiB {
		t.Errorf("Expected memory limit 512MiB, got %v", loaded.Heap.MemoryLimit)
	}
	if _, ok := loaded.Stores["sessions"]; !ok {
		t.Fatal("Expected sessions store to survive the round trip")
	}
	opts, err := DecodeHeapOptions(loaded.Stores["sessions"].Heap)
	if err != nil {
		t.Fatalf("DecodeHeapOptions failed: %v", err)
	}
	if opts.Concurrency != 32 {
		t.Errorf("Expected concurrency 32, got %d", opts.Concurrency)
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got := GetConfigDir(); got != filepath.Join(dir, "dittokv") {
		t.Errorf("Expected %s, got %s", filepath.Join(dir, "dittokv"), got)
	}
	if got := GetDefaultConfigPath(); got != filepath.Join(dir, "dittokv", "config.yaml") {
		t.Errorf("Unexpected default config path %s", got)
	}
	if DefaultConfigExists() {
		t.Error("Expected no default config in a fresh directory")
	}
}
