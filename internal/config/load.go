package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/kubestrap/kubestrap/internal/network"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "kubestrap.yaml"

// LoadFile reads and parses the configuration from a YAML file, applies
// defaults and the plugin environment override, and validates the result.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data)
}

// Load parses configuration from YAML bytes.
func Load(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ClusterName == "" {
		cfg.ClusterName = "kubestrap"
	}
	if cfg.NetworkPlugin == "" {
		cfg.NetworkPlugin = network.DefaultPlugin
	}
	if cfg.Adapter == "" {
		cfg.Adapter = "enp0s8"
	}
	if cfg.Machine.Box == "" {
		cfg.Machine.Box = "centos/7"
	}
	if cfg.Machine.MemoryMB == 0 {
		cfg.Machine.MemoryMB = 2048
	}
	if cfg.Machine.CPUs == 0 {
		cfg.Machine.CPUs = 2
	}
	if cfg.SSH.User == "" {
		cfg.SSH.User = "vagrant"
	}
}

// applyEnvOverrides applies the single environment-style input: the active
// network plugin. The default substitution above runs first, so an empty
// override leaves the default in place and the catalog never sees an empty
// identifier.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(PluginEnvVar); v != "" {
		cfg.NetworkPlugin = v
	}
}
