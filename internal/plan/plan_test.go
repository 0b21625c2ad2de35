package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/netutil"
	"github.com/kubestrap/kubestrap/internal/network"
)

func testConfig() *config.Config {
	return &config.Config{
		ClusterName:        "lab",
		CoordinatorAddress: "192.168.205.10",
		Workers:            2,
		NetworkPlugin:      "calico",
		Adapter:            "enp0s8",
		Machine:            config.MachineConfig{Box: "centos/7", MemoryMB: 2048, CPUs: 2},
		SSH:                config.SSHConfig{User: "vagrant"},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	p, err := Build(testConfig())
	require.NoError(t, err)

	require.Len(t, p.Machines, 3)
	assert.Equal(t, "calico", p.Plugin.Name)

	coord := p.Machines[0]
	assert.Equal(t, "lab-coordinator", coord.Name)
	assert.Equal(t, RoleCoordinator, coord.Role)
	assert.Equal(t, "192.168.205.10", coord.Address)
	assert.Equal(t, "lab", coord.Group)
	assert.Equal(t, 2048, coord.MemoryMB)
	assert.Equal(t, 2, coord.CPUs)

	workers := p.Workers()
	require.Len(t, workers, 2)
	assert.Equal(t, "lab-worker-1", workers[0].Name)
	assert.Equal(t, "192.168.205.11", workers[0].Address)
	assert.Equal(t, "lab-worker-2", workers[1].Name)
	assert.Equal(t, "192.168.205.12", workers[1].Address)
}

func TestBuild_DerivesPastStringSuccessorEdge(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.CoordinatorAddress = "192.168.205.19"
	cfg.Workers = 1

	p, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, "192.168.205.20", p.Workers()[0].Address)
}

func TestBuild_UnknownPlugin(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.NetworkPlugin = "macvlan"

	_, err := Build(cfg)
	require.ErrorIs(t, err, network.ErrUnknownPlugin)
}

func TestBuild_AddressExhaustion(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Workers = 254

	_, err := Build(cfg)
	require.ErrorIs(t, err, netutil.ErrAddressRangeExhausted)
}

func TestPlan_Coordinator(t *testing.T) {
	t.Parallel()
	p, err := Build(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "lab-coordinator", p.Coordinator().Name)
}
