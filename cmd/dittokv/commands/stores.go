package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marmos91/dittokv/internal/cli/output"
	"github.com/marmos91/dittokv/pkg/config"
	"github.com/marmos91/dittokv/pkg/registry"
	"github.com/spf13/cobra"
)

var storesOutput string

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Inspect the configured stores",
	Long: `Inspect the stores declared in the configuration file.

The stores are built and started exactly as 'dittokv start' would, which
makes these commands a dry run of the registry start.

Examples:
  # List the configured stores
  dittokv stores list

  # Describe one store as JSON
  dittokv stores describe sessions --output json`,
}

var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured stores",
	Args:  cobra.NoArgs,
	RunE:  runStoresList,
}

var storesDescribeCmd = &cobra.Command{
	Use:   "describe <alias>",
	Short: "Describe a configured store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresDescribe,
}

func init() {
	storesCmd.PersistentFlags().StringVarP(&storesOutput, "output", "o", "table", "Output format (table|json|yaml)")
	storesCmd.AddCommand(storesListCmd)
	storesCmd.AddCommand(storesDescribeCmd)
}

// withStartedRegistry starts the configured registry, runs fn and shuts the
// registry down.
func withStartedRegistry(ctx context.Context, fn func(*registry.Registry) error) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	reg, err := NewRegistry(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer reg.Shutdown()

	if err := reg.Start(ctx).Wait(ctx); err != nil {
		return fmt.Errorf("failed to start registry: %w", err)
	}
	return fn(reg)
}

func storeRow(info registry.StoreInfo) []string {
	return []string{
		info.Alias,
		info.Tier,
		info.KeyType,
		info.ValueType,
		strconv.FormatInt(info.Size, 10),
	}
}

func runStoresList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(storesOutput)
	if err != nil {
		return err
	}

	return withStartedRegistry(cmd.Context(), func(reg *registry.Registry) error {
		table := output.NewTable(reg.Stores(), storeRow, "alias", "tier", "key_type", "value_type", "size")
		return output.Print(cmd.OutOrStdout(), format, table)
	})
}

func runStoresDescribe(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(storesOutput)
	if err != nil {
		return err
	}

	return withStartedRegistry(cmd.Context(), func(reg *registry.Registry) error {
		info, ok, err := reg.Describe(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no store configured under alias %q", args[0])
		}

		if format != output.FormatTable {
			return output.Print(cmd.OutOrStdout(), format, info)
		}
		return output.PrintPairs(cmd.OutOrStdout(), [][2]string{
			{"Alias", info.Alias},
			{"Tier", info.Tier},
			{"Key type", info.KeyType},
			{"Value type", info.ValueType},
			{"Size", strconv.FormatInt(info.Size, 10)},
			{"Created", info.CreatedAt.Format(time.RFC3339)},
		})
	})
}
