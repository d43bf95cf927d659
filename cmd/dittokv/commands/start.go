package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/internal/telemetry"
	"github.com/marmos91/dittokv/pkg/api"
	"github.com/marmos91/dittokv/pkg/config"
	"github.com/marmos91/dittokv/pkg/lifecycle"
	"github.com/marmos91/dittokv/pkg/metrics"
)

var pidFile string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the DittoKV server",
	Long: `Start the DittoKV server in the foreground.

The server registers every store declared in the configuration file, starts
the registry and serves the HTTP API until interrupted.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/dittokv/config.yaml.

Examples:
  # Start with the default config
  dittokv start

  # Start with custom config file
  dittokv start --config /etc/dittokv/config.yaml

  # Start with environment variable overrides
  DITTOKV_LOGGING_LEVEL=DEBUG dittokv start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "dittokv",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		// ctx is cancelled by now
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "dittokv",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}

	if cfg.Heap.MemoryLimit > 0 {
		debug.SetMemoryLimit(int64(cfg.Heap.MemoryLimit))
		logger.Info("Heap memory limit set", "limit", cfg.Heap.MemoryLimit.String())
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		gatherer = metrics.InitRegistry()
		logger.Info("Metrics enabled")
	} else {
		logger.Info("Metrics collection disabled")
	}

	reg, err := NewRegistry(cfg,
		metrics.NewStorageMetrics(metrics.Registerer()),
		metrics.NewRegistryMetrics(metrics.Registerer()),
	)
	if err != nil {
		return err
	}
	logger.Info("Registry configured", "tier", reg.Tier(), "stores", len(cfg.Stores))

	svc := lifecycle.New(cfg.ShutdownTimeout)
	if cfg.API.IsEnabled() {
		svc.SetAPIServer(api.NewServer(cfg.API, reg, gatherer))
		logger.Info("API server configured", "port", cfg.API.Port)
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	logger.Info("Server is running. Press Ctrl+C to stop.")

	if err := svc.Serve(ctx, reg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server stopped with error", logger.Err(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
