package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/marmos91/dittokv/internal/cli/output"
	"github.com/marmos91/dittokv/pkg/apiclient"
	"github.com/marmos91/dittokv/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	statusOutput  string
	statusAPIURL  string
	statusTimeout time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the status of a running DittoKV server.

This command queries the server health endpoints and lists the stores
registered in its registry.

Examples:
  # Check status of the local server
  dittokv status

  # Check a server on another port
  dittokv status --api-url http://localhost:9080

  # Output as JSON
  dittokv status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAPIURL, "api-url", "http://localhost:8080", "API server URL")
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 2*time.Second, "Request timeout")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// ServerStatus represents the server status information.
type ServerStatus struct {
	Running bool                 `json:"running" yaml:"running"`
	Healthy bool                 `json:"healthy" yaml:"healthy"`
	State   string               `json:"state,omitempty" yaml:"state,omitempty"`
	Tier    string               `json:"tier,omitempty" yaml:"tier,omitempty"`
	Message string               `json:"message" yaml:"message"`
	Stores  []registry.StoreInfo `json:"stores,omitempty" yaml:"stores,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	client := apiclient.New(statusAPIURL, apiclient.WithTimeout(statusTimeout))
	status := fetchStatus(cmd, client)

	if format != output.FormatTable {
		return output.Print(cmd.OutOrStdout(), format, status)
	}
	return printStatusTable(cmd, status)
}

func fetchStatus(cmd *cobra.Command, client *apiclient.Client) ServerStatus {
	ctx := cmd.Context()
	status := ServerStatus{Message: "Server is not running"}

	if _, err := client.Liveness(ctx); err != nil {
		return status
	}
	status.Running = true

	ready, err := client.Readiness(ctx)
	if ready != nil {
		status.State = ready.State
		status.Tier = ready.Tier
	}
	if err != nil {
		status.Message = fmt.Sprintf("Server is running but not ready: %v", err)
		return status
	}

	status.Healthy = true
	status.Message = "Server is running and healthy"

	stores, err := client.Stores(ctx)
	if err != nil {
		status.Message = fmt.Sprintf("Server is healthy but stores are unavailable: %v", err)
		return status
	}
	status.Stores = stores
	return status
}

func printStatusTable(cmd *cobra.Command, status ServerStatus) error {
	out := cmd.OutOrStdout()

	state := "Stopped"
	switch {
	case status.Healthy:
		state = "Running"
	case status.Running:
		state = "Running (not ready)"
	}

	pairs := [][2]string{{"Status", state}}
	if status.State != "" {
		pairs = append(pairs, [2]string{"Registry", status.State})
	}
	if status.Tier != "" {
		pairs = append(pairs, [2]string{"Tier", status.Tier})
	}
	if status.Healthy {
		pairs = append(pairs, [2]string{"Stores", strconv.Itoa(len(status.Stores))})
	}
	if err := output.PrintPairs(out, pairs); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\n%s\n", status.Message)

	if len(status.Stores) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(out)
	return output.PrintTable(out, output.NewTable(status.Stores, storeRow, "alias", "tier", "key_type", "value_type", "size"))
}
