package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/marmos91/dittokv/internal/cli/output"
	"github.com/marmos91/dittokv/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the DittoKV configuration file.

Checks for syntax errors, missing required fields, invalid values, and
stores whose key type, value type, listeners or heap options cannot be
combined.

Examples:
  # Validate default config
  dittokv config validate

  # Validate specific config file
  dittokv config validate --config /etc/dittokv/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if len(cfg.Stores) == 0 {
		warnings = append(warnings, "No stores configured - the registry will start empty")
	}
	if cfg.Metrics.Enabled && !cfg.API.IsEnabled() {
		warnings = append(warnings, "Metrics enabled but the API server is disabled - /metrics will not be served")
	}
	if cfg.Heap.MemoryLimit == 0 {
		warnings = append(warnings, "No heap memory limit - heap utilization is reported against the memory obtained from the OS")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintln(out, "\nConfiguration summary:")
	summary := [][2]string{
		{"  API port", fmt.Sprintf("%d", cfg.API.Port)},
		{"  Log level", cfg.Logging.Level},
	}
	for _, alias := range slices.Sorted(maps.Keys(cfg.Stores)) {
		sc := cfg.Stores[alias]
		summary = append(summary, [2]string{"  Store " + alias, sc.KeyType + " -> " + sc.ValueType})
	}
	return output.PrintPairs(out, summary)
}
