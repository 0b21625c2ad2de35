package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/plan"
)

func planConfig(t *testing.T, pluginName string) (*config.Config, *plan.Plan) {
	t.Helper()
	cfg := &config.Config{
		ClusterName:        "lab",
		CoordinatorAddress: "192.168.205.10",
		Workers:            2,
		NetworkPlugin:      pluginName,
		Adapter:            "enp0s8",
		Machine:            config.MachineConfig{Box: "centos/7", MemoryMB: 2048, CPUs: 2},
		SSH:                config.SSHConfig{User: "vagrant"},
	}
	p, err := plan.Build(cfg)
	require.NoError(t, err)
	return cfg, p
}

func TestRenderPlan_Calico(t *testing.T) {
	t.Parallel()
	cfg, p := planConfig(t, "calico")

	out := renderPlan(cfg, p)
	assert.Contains(t, out, "Cluster: lab")
	assert.Contains(t, out, "Network plugin: calico")
	assert.Contains(t, out, "pod CIDR: 192.168.0.0/16")
	assert.Contains(t, out, "manifests: 2")
	assert.Contains(t, out, "lab-coordinator")
	assert.Contains(t, out, "192.168.205.12")
	assert.NotContains(t, out, "per-worker route")
}

func TestRenderPlan_Weave(t *testing.T) {
	t.Parallel()
	cfg, p := planConfig(t, "weave")

	out := renderPlan(cfg, p)
	assert.Contains(t, out, "pod CIDR: assigned by overlay")
	assert.Contains(t, out, "per-worker route: 10.96.0.0/12 via coordinator")
}

func TestRenderPlan_Flannel(t *testing.T) {
	t.Parallel()
	cfg, p := planConfig(t, "flannel")

	out := renderPlan(cfg, p)
	assert.Contains(t, out, "pod CIDR: 10.244.0.0/16")
	assert.Contains(t, out, "agent pinned to adapter: enp0s8")
}
