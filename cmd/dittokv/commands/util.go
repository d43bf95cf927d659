package commands

import (
	"fmt"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/pkg/config"
	"github.com/marmos91/dittokv/pkg/metrics"
	"github.com/marmos91/dittokv/pkg/registry"
	"github.com/marmos91/dittokv/pkg/storage/heap"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// NewRegistry builds the heap store registry described by cfg. Nil metrics
// disable the corresponding collectors.
func NewRegistry(cfg *config.Config, storageMetrics *metrics.StorageMetrics, registryMetrics *metrics.RegistryMetrics) (*registry.Registry, error) {
	configs, err := config.BuildStoreConfigs(cfg, config.StoreDeps{Metrics: storageMetrics})
	if err != nil {
		return nil, fmt.Errorf("failed to build store configurations: %w", err)
	}

	reg := registry.New(heap.NewFactory(), configs,
		registry.WithMetrics(registryMetrics),
		registry.WithStartConcurrency(cfg.Registry.StartConcurrency),
	)
	storageMetrics.Watch(reg)
	return reg, nil
}

// getConfigSource describes where the configuration was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
