package config

import (
	"github.com/marmos91/dittokv/internal/cli/output"
	"github.com/marmos91/dittokv/pkg/config"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective DittoKV configuration, with defaults and
environment overrides applied.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show default config as YAML
  dittokv config show

  # Show as JSON
  dittokv config show --output json

  # Show specific config file
  dittokv config show --config /etc/dittokv/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}
