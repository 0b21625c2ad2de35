package wizard

import (
	"context"
	"errors"
	"regexp"

	"github.com/charmbracelet/huh"

	"github.com/kubestrap/kubestrap/internal/netutil"
	"github.com/kubestrap/kubestrap/internal/network"
)

// clusterNameRegex validates cluster name format: 1-32 lowercase
// alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

var (
	errClusterNameRequired = errors.New("cluster name is required")
	errClusterNameInvalid  = errors.New("must be 1-32 lowercase alphanumeric characters or hyphens")
	errAddressRequired     = errors.New("coordinator address is required")
	errAddressInvalid      = errors.New("must be a dotted-quad IPv4 address")
	errSSHUserRequired     = errors.New("ssh user is required")
)

// runClusterIdentityGroup prompts for cluster name and coordinator address.
func runClusterIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("1-32 lowercase alphanumeric characters or hyphens").
				Placeholder("my-cluster").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewInput().
				Title("Coordinator Address").
				Description("Private-network IPv4 of the coordinator. Worker addresses follow it.").
				Placeholder("192.168.205.10").
				Value(&result.CoordinatorAddress).
				Validate(validateAddress),
		).Title("Cluster Identity"),
	).RunWithContext(ctx)
}

// runMachinesGroup prompts for worker count and machine resources.
func runMachinesGroup(ctx context.Context, result *WizardResult) error {
	result.Box = Boxes[0].Value
	result.MemoryMB = 2048
	result.CPUs = 2

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Worker Count").
				Description("Number of worker machines to bootstrap").
				Options(WorkerCountOptions...).
				Value(&result.WorkerCount),
			huh.NewSelect[string]().
				Title("Base Image").
				Description("Machine base image for every cluster member").
				Options(BoxesToOptions()...).
				Value(&result.Box),
			huh.NewSelect[int]().
				Title("Memory").
				Description("Memory per machine").
				Options(MemoryOptions...).
				Value(&result.MemoryMB),
			huh.NewSelect[int]().
				Title("CPUs").
				Description("CPU count per machine").
				Options(CPUOptions...).
				Value(&result.CPUs),
		).Title("Machines"),
	).RunWithContext(ctx)
}

// runNetworkGroup prompts for the pod-network overlay and the cluster adapter.
func runNetworkGroup(ctx context.Context, result *WizardResult) error {
	result.NetworkPlugin = network.DefaultPlugin
	result.Adapter = "enp0s8"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Network Plugin").
				Description("Pod-network overlay installed after cluster init").
				Options(PluginsToOptions()...).
				Value(&result.NetworkPlugin),
			huh.NewInput().
				Title("Cluster Adapter").
				Description("Host-only adapter carrying cluster traffic on each machine").
				Value(&result.Adapter),
		).Title("Networking"),
	).RunWithContext(ctx)
}

// runSSHAccessGroup prompts for the SSH user and key path.
func runSSHAccessGroup(ctx context.Context, result *WizardResult) error {
	result.SSHUser = "vagrant"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSH User").
				Description("Account used to reach the machines").
				Value(&result.SSHUser).
				Validate(validateSSHUser),
			huh.NewInput().
				Title("Private Key Path (Optional)").
				Description("Operator-side key. Leave empty for the hypervisor default.").
				Placeholder("~/.ssh/id_ed25519 (or leave empty)").
				Value(&result.PrivateKeyPath),
		).Title("SSH Access"),
	).RunWithContext(ctx)
}

// validateClusterName validates the cluster name format.
func validateClusterName(s string) error {
	if s == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(s) {
		return errClusterNameInvalid
	}
	return nil
}

// validateAddress validates a dotted-quad IPv4 address.
func validateAddress(s string) error {
	if s == "" {
		return errAddressRequired
	}
	if _, err := netutil.ParseDottedQuad(s); err != nil {
		return errAddressInvalid
	}
	return nil
}

// validateSSHUser requires a non-empty user.
func validateSSHUser(s string) error {
	if s == "" {
		return errSSHUserRequired
	}
	return nil
}
