package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig(t *testing.T) {
	t.Parallel()
	result := &WizardResult{
		ClusterName:        "lab",
		CoordinatorAddress: "192.168.205.10",
		WorkerCount:        2,
		Box:                "centos/7",
		MemoryMB:           2048,
		CPUs:               2,
		NetworkPlugin:      "weave",
		Adapter:            "enp0s8",
		SSHUser:            "vagrant",
	}

	cfg := BuildConfig(result)
	assert.Equal(t, "lab", cfg.ClusterName)
	assert.Equal(t, "192.168.205.10", cfg.CoordinatorAddress)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "weave", cfg.NetworkPlugin)
	assert.Equal(t, "enp0s8", cfg.Adapter)
	assert.Equal(t, "centos/7", cfg.Machine.Box)
	assert.Equal(t, 2048, cfg.Machine.MemoryMB)
	assert.Equal(t, "vagrant", cfg.SSH.User)
	assert.Empty(t, cfg.SSH.PrivateKeyPath)

	require.NoError(t, cfg.Validate())
}

func TestBuildConfig_OptionalKeyPath(t *testing.T) {
	t.Parallel()
	result := &WizardResult{
		ClusterName:        "lab",
		CoordinatorAddress: "192.168.205.10",
		WorkerCount:        1,
		Box:                "centos/7",
		MemoryMB:           2048,
		CPUs:               2,
		NetworkPlugin:      "calico",
		Adapter:            "enp0s8",
		SSHUser:            "vagrant",
		PrivateKeyPath:     "/home/op/.ssh/id_ed25519",
	}

	cfg := BuildConfig(result)
	assert.Equal(t, "/home/op/.ssh/id_ed25519", cfg.SSH.PrivateKeyPath)
}

func TestValidateClusterName(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateClusterName("my-cluster"))
	assert.NoError(t, validateClusterName("a"))
	assert.Error(t, validateClusterName(""))
	assert.Error(t, validateClusterName("-leading"))
	assert.Error(t, validateClusterName("Upper"))
	assert.Error(t, validateClusterName("way-too-long-cluster-name-over-32-chars"))
}

func TestValidateAddress(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateAddress("192.168.205.10"))
	assert.Error(t, validateAddress(""))
	assert.Error(t, validateAddress("192.168.205"))
	assert.Error(t, validateAddress("not-an-address"))
	assert.Error(t, validateAddress("192.168.205.256"))
}
