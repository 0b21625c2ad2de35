package commands

import (
	"github.com/spf13/cobra"

	"github.com/kubestrap/kubestrap/cmd/kubestrap/handlers"
)

// Plan returns the command that prints the resolved bootstrap plan without
// touching any machine.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved bootstrap plan",
		Long: `Show the machines, addresses, and overlay settings that 'kubestrap up'
would act on, without touching any machine.

Examples:
  kubestrap plan
  kubestrap plan -c lab.yaml
  NETWORK_PLUGIN=weave kubestrap plan`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Plan(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kubestrap.yaml)")

	return cmd
}
