package vm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/plan"
)

func testPlan(t *testing.T) *plan.Plan {
	t.Helper()
	p, err := plan.Build(&config.Config{
		ClusterName:        "lab",
		CoordinatorAddress: "192.168.205.10",
		Workers:            2,
		NetworkPlugin:      "calico",
		Adapter:            "enp0s8",
		Machine:            config.MachineConfig{Box: "centos/7", BoxVersion: "1804.02", MemoryMB: 2048, CPUs: 2},
		SSH:                config.SSHConfig{User: "vagrant"},
	})
	require.NoError(t, err)
	return p
}

func TestDefinitionsFromPlan(t *testing.T) {
	t.Parallel()
	p := testPlan(t)
	defs := DefinitionsFromPlan(p, config.MachineConfig{Box: "centos/7", BoxVersion: "1804.02"})

	require.Len(t, defs, 3)
	assert.Equal(t, "lab-coordinator", defs[0].Name)
	assert.Equal(t, "192.168.205.10", defs[0].Address)
	assert.Equal(t, "centos/7", defs[0].Box)
	assert.Equal(t, "1804.02", defs[0].BoxVersion)
	assert.Equal(t, "lab-worker-2", defs[2].Name)
	assert.Equal(t, "192.168.205.12", defs[2].Address)
}

func TestWriteManifest_RoundTrips(t *testing.T) {
	t.Parallel()
	defs := DefinitionsFromPlan(testPlan(t), config.MachineConfig{Box: "centos/7", MemoryMB: 2048, CPUs: 2})

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, defs))

	var decoded struct {
		Machines []Definition `yaml:"machines"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, defs, decoded.Machines)
}

func TestWriteManifestFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "machines.yaml")
	require.NoError(t, WriteManifestFile(path, DefinitionsFromPlan(testPlan(t), config.MachineConfig{Box: "centos/7"})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lab-coordinator")
}
