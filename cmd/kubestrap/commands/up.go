package commands

import (
	"github.com/spf13/cobra"

	"github.com/kubestrap/kubestrap/cmd/kubestrap/handlers"
)

// Up returns the command that bootstraps the cluster.
//
// Optional flags:
//
//	--config, -c: Path to cluster configuration YAML file (default: kubestrap.yaml)
//	--parallel-joins: How many workers may join concurrently (default: 1)
//
// Environment variables:
//
//	NETWORK_PLUGIN: Overrides the configured pod-network overlay
func Up() *cobra.Command {
	var configPath string
	var parallelJoins int

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bring up the machines and bootstrap the cluster",
		Long: `Bring up the machines and bootstrap the cluster.

This command brings up one coordinator and N worker machines, installs the
container runtime and the orchestration agent on each, initializes the
cluster on the coordinator, installs the selected pod-network overlay, and
joins the workers.

If no config file is specified, it looks for kubestrap.yaml in the current
directory. Use 'kubestrap init' to create a configuration file.

Examples:
  # Bootstrap using kubestrap.yaml in current directory
  kubestrap up

  # Bootstrap using a specific config file
  kubestrap up -c lab.yaml

  # Re-run after a partial failure; completed machines are skipped
  kubestrap up`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, parallelJoins)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kubestrap.yaml)")
	cmd.Flags().IntVar(&parallelJoins, "parallel-joins", 1, "How many workers may join concurrently")

	return cmd
}
