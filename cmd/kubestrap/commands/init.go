package commands

import (
	"github.com/spf13/cobra"

	"github.com/kubestrap/kubestrap/cmd/kubestrap/handlers"
	"github.com/kubestrap/kubestrap/internal/config"
)

// Init returns the command that creates a configuration file through the
// interactive wizard.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Create a kubestrap configuration file through an interactive wizard.

The wizard asks for the cluster identity, machine resources, the pod-network
overlay, and SSH access, then writes a YAML file 'kubestrap up' can use.

Examples:
  kubestrap init
  kubestrap init -o lab.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultPath, "Path for the generated configuration file")

	return cmd
}
