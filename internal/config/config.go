// Package config defines the bootstrap configuration and its loading rules.
//
// Configuration comes from a YAML file plus a single environment override
// for the active network plugin. All selection happens here, once, before
// any machine work begins; the rest of the code receives resolved values.
package config

import (
	"fmt"
	"regexp"

	"github.com/kubestrap/kubestrap/internal/netutil"
	"github.com/kubestrap/kubestrap/internal/network"
)

// PluginEnvVar selects the active network plugin. Absent or empty means the
// catalog default.
const PluginEnvVar = "NETWORK_PLUGIN"

// clusterNameRegex validates cluster names: 1-32 lowercase alphanumeric
// characters or hyphens, not starting or ending with a hyphen.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// Config is the full bootstrap configuration.
type Config struct {
	// ClusterName groups the machines and names the output artifacts.
	ClusterName string `yaml:"clusterName"`

	// CoordinatorAddress is the coordinator's private-network IPv4 address.
	// Worker addresses are derived from it by dotted-quad increment.
	CoordinatorAddress string `yaml:"coordinatorAddress"`

	// Workers is the number of worker machines to bootstrap.
	Workers int `yaml:"workers"`

	// NetworkPlugin is the overlay identifier. Empty means the default;
	// the environment override takes precedence over the file value.
	NetworkPlugin string `yaml:"networkPlugin"`

	// Adapter is the host-only network adapter name on each machine. The
	// agents of several overlays default to the NAT adapter and have to be
	// pointed here instead.
	Adapter string `yaml:"adapter"`

	Machine MachineConfig `yaml:"machine"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// MachineConfig describes the per-machine resources handed to the
// provisioning collaborator.
type MachineConfig struct {
	Box        string `yaml:"box"`
	BoxVersion string `yaml:"boxVersion"`
	MemoryMB   int    `yaml:"memoryMB"`
	CPUs       int    `yaml:"cpus"`
}

// SSHConfig describes the trusted channel to the machines.
type SSHConfig struct {
	User string `yaml:"user"`
	// PrivateKeyPath is the operator-side key for reaching the machines.
	PrivateKeyPath string `yaml:"privateKeyPath"`
	// TrustKeyPath, when set, reuses an existing key pair for the
	// worker-to-coordinator channel instead of generating one per run.
	TrustKeyPath string `yaml:"trustKeyPath"`
}

// Validate checks the configuration before any machine work begins.
// Failures here are configuration errors and abort the run.
func (c *Config) Validate() error {
	if !clusterNameRegex.MatchString(c.ClusterName) {
		return fmt.Errorf("invalid cluster name %q: must be 1-32 lowercase alphanumeric characters or hyphens", c.ClusterName)
	}
	if _, err := netutil.ParseDottedQuad(c.CoordinatorAddress); err != nil {
		return fmt.Errorf("invalid coordinator address: %w", err)
	}
	if c.Workers < 1 || c.Workers > 253 {
		return fmt.Errorf("worker count %d out of range [1,253]", c.Workers)
	}
	if _, err := network.Resolve(c.NetworkPlugin); err != nil {
		return err
	}
	if c.Adapter == "" {
		return fmt.Errorf("adapter must not be empty")
	}
	if c.SSH.User == "" {
		return fmt.Errorf("ssh user must not be empty")
	}
	if c.Machine.MemoryMB < 512 {
		return fmt.Errorf("machine memory %dMB too small: agent needs at least 512MB", c.Machine.MemoryMB)
	}
	if c.Machine.CPUs < 1 {
		return fmt.Errorf("machine cpu count must be at least 1")
	}
	return nil
}
