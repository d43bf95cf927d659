package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# DittoKV Configuration File
#
# Values can be overridden with DITTOKV_* environment variables,
# e.g. DITTOKV_LOGGING_LEVEL=DEBUG.

logging:
  level: INFO      # DEBUG, INFO, WARN, ERROR
  format: text     # text, json
  output: stdout   # stdout, stderr, or a file path

telemetry:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false
    endpoint: http://localhost:4040

metrics:
  enabled: false

api:
  enabled: true
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  idle_timeout: 60s

shutdown_timeout: 30s

heap:
  # Go runtime soft memory limit, reported as the heap resource total.
  # memory_limit: 2GiB

registry:
  start_concurrency: 4

# Stores registered when the registry starts.
# key_type:   string, int, int32, int64, uint64, float64, bool, any
# value_type: any key type, or bytes
# listeners:  logging, metrics
stores:
  sessions:
    key_type: string
    value_type: string
    listeners: [logging]
    heap:
      concurrency: 512
      hasher: xxhash
`

// InitConfig writes a sample configuration file at the default location and
// returns its path. An existing file is only replaced when force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file at path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
