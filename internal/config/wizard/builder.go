package wizard

import "github.com/kubestrap/kubestrap/internal/config"

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		ClusterName:        result.ClusterName,
		CoordinatorAddress: result.CoordinatorAddress,
		Workers:            result.WorkerCount,
		NetworkPlugin:      result.NetworkPlugin,
		Adapter:            result.Adapter,
		Machine: config.MachineConfig{
			Box:      result.Box,
			MemoryMB: result.MemoryMB,
			CPUs:     result.CPUs,
		},
		SSH: config.SSHConfig{
			User: result.SSHUser,
		},
	}

	// Only set the key path if provided (optional field)
	if result.PrivateKeyPath != "" {
		cfg.SSH.PrivateKeyPath = result.PrivateKeyPath
	}

	return cfg
}
