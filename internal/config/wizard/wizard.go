package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Cluster Identity
	ClusterName        string
	CoordinatorAddress string

	// Machines
	WorkerCount int
	Box         string
	MemoryMB    int
	CPUs        int

	// Networking
	NetworkPlugin string
	Adapter       string

	// SSH Access
	SSHUser        string
	PrivateKeyPath string
}

// RunWizard runs the interactive configuration wizard. The context is used
// for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runClusterIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster identity: %w", err)
	}

	if err := runMachinesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("machines: %w", err)
	}

	if err := runNetworkGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("networking: %w", err)
	}

	if err := runSSHAccessGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("ssh access: %w", err)
	}

	return result, nil
}
