package handlers

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	k8sfake "k8s.io/client-go/kubernetes/fake"

	"github.com/kubestrap/kubestrap/internal/cluster"
	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/driver"
	"github.com/kubestrap/kubestrap/internal/plan"
	"github.com/kubestrap/kubestrap/internal/platform/ssh"
	"github.com/kubestrap/kubestrap/internal/platform/vm"
	"github.com/kubestrap/kubestrap/internal/shellcmd"
)

const testConfigYAML = `clusterName: lab
coordinatorAddress: 192.168.205.10
workers: 2
networkPlugin: calico
adapter: enp0s8
machine:
  box: centos/7
  memoryMB: 2048
  cpus: 2
ssh:
  user: vagrant
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kubestrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0600))
	return path
}

// fakeRemote is an in-memory remote execute/copy channel.
type fakeRemote struct {
	files map[string][]byte
}

func (f *fakeRemote) Run(_ context.Context, _ string, _ shellcmd.Command) (string, error) {
	return "", nil
}

func (f *fakeRemote) Put(_ context.Context, host, path string, data []byte, _ fs.FileMode) error {
	f.files[host+":"+path] = data
	return nil
}

func (f *fakeRemote) Fetch(_ context.Context, host, path string) ([]byte, error) {
	data, ok := f.files[host+":"+path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

// fakeDriver returns a canned successful result.
type fakeDriver struct {
	result *driver.Result
	err    error
}

func (d *fakeDriver) Run(context.Context) (*driver.Result, error) {
	return d.result, d.err
}

func TestLoadPlan_MissingConfigIsConfigError(t *testing.T) {
	_, _, err := loadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var cfgErr *driver.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadPlan_ResolvesPlanFromFile(t *testing.T) {
	t.Setenv(config.PluginEnvVar, "")
	cfg, p, err := loadPlan(writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "lab", cfg.ClusterName)
	require.Len(t, p.Machines, 3)
	assert.Equal(t, "192.168.205.11", p.Machines[1].Address)
	assert.Equal(t, "calico", p.Plugin.Name)
}

func TestTrustKeyPair_GeneratesWhenUnset(t *testing.T) {
	cfg := &config.Config{ClusterName: "lab"}
	kp, err := trustKeyPair(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, kp.PrivateKey)
	assert.NotEmpty(t, kp.PublicKey)
}

func TestUp_EndToEnd(t *testing.T) {
	t.Setenv(config.PluginEnvVar, "")

	configPath := writeTestConfig(t)
	workDir := t.TempDir()

	remote := &fakeRemote{files: map[string][]byte{
		"192.168.205.10:" + cluster.AdminCredentialPath: []byte("apiVersion: v1\nkind: Config\n"),
	}}

	var manifestDefs []vm.Definition
	var hypervisorRan bool
	var wroteKubeconfig []byte
	var drivenPlan *plan.Plan

	restore := func(t *testing.T) {
		origManifest := writeManifestFile
		origHyper := newHypervisor
		origRunner := newRemoteRunner
		origDriver := newDriver
		origClientset := newClientset
		origWrite := writeFile
		origRead := readFile
		t.Cleanup(func() {
			writeManifestFile = origManifest
			newHypervisor = origHyper
			newRemoteRunner = origRunner
			newDriver = origDriver
			newClientset = origClientset
			writeFile = origWrite
			readFile = origRead
		})
	}
	restore(t)

	writeManifestFile = func(path string, defs []vm.Definition) error {
		manifestDefs = defs
		return vm.WriteManifestFile(filepath.Join(workDir, filepath.Base(path)), defs)
	}
	newHypervisor = func() vm.Hypervisor {
		return hypervisorFunc(func(context.Context, string) error {
			hypervisorRan = true
			return nil
		})
	}
	newRemoteRunner = func(*ssh.Config) (remoteRunner, error) { return remote, nil }
	newDriver = func(p *plan.Plan, _ driver.Provisioner, _ driver.Initializer, _ driver.Joiner, _ driver.Logger, _ int) bootstrapDriver {
		drivenPlan = p
		states := make([]driver.MachineState, len(p.Machines))
		for i, m := range p.Machines {
			states[i] = driver.MachineState{Spec: m, Status: driver.StatusDone}
		}
		return &fakeDriver{result: &driver.Result{
			States: states,
			Credential: &cluster.JoinCredential{
				Endpoint:   "192.168.205.10",
				ScriptPath: cluster.JoinScriptPath,
				Script:     []byte("kubeadm join\n"),
			},
			JoinedWorkers: 2,
			TotalWorkers:  2,
		}}
	}
	newClientset = func([]byte) (kubernetes.Interface, error) {
		return k8sfake.NewSimpleClientset(&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "lab-coordinator"},
			Status: corev1.NodeStatus{Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
			}},
		}), nil
	}
	writeFile = func(name string, data []byte, _ os.FileMode) error {
		wroteKubeconfig = data
		return nil
	}
	readFile = func(name string) ([]byte, error) {
		if name == kubeconfigPath {
			return wroteKubeconfig, nil
		}
		return []byte("fake-key"), nil
	}

	require.NoError(t, Up(context.Background(), configPath, 1))

	assert.True(t, hypervisorRan)
	require.Len(t, manifestDefs, 3)
	assert.Equal(t, "lab-coordinator", manifestDefs[0].Name)
	require.NotNil(t, drivenPlan)
	assert.Equal(t, "calico", drivenPlan.Plugin.Name)
	assert.Equal(t, []byte("apiVersion: v1\nkind: Config\n"), wroteKubeconfig)
}

func TestUp_DriverFailurePropagates(t *testing.T) {
	t.Setenv(config.PluginEnvVar, "")

	configPath := writeTestConfig(t)

	origManifest := writeManifestFile
	origHyper := newHypervisor
	origRunner := newRemoteRunner
	origDriver := newDriver
	origRead := readFile
	t.Cleanup(func() {
		writeManifestFile = origManifest
		newHypervisor = origHyper
		newRemoteRunner = origRunner
		newDriver = origDriver
		readFile = origRead
	})

	writeManifestFile = func(string, []vm.Definition) error { return nil }
	newHypervisor = func() vm.Hypervisor {
		return hypervisorFunc(func(context.Context, string) error { return nil })
	}
	newRemoteRunner = func(*ssh.Config) (remoteRunner, error) {
		return &fakeRemote{files: map[string][]byte{}}, nil
	}
	readFile = func(string) ([]byte, error) { return []byte("fake-key"), nil }

	initErr := &driver.InitError{Machine: "lab-coordinator", Err: errors.New("init tool exited 1")}
	newDriver = func(p *plan.Plan, _ driver.Provisioner, _ driver.Initializer, _ driver.Joiner, _ driver.Logger, _ int) bootstrapDriver {
		return &fakeDriver{result: &driver.Result{TotalWorkers: 2}, err: initErr}
	}

	err := Up(context.Background(), configPath, 1)
	require.Error(t, err)
	var ie *driver.InitError
	assert.ErrorAs(t, err, &ie)
}

// hypervisorFunc adapts a function to the vm.Hypervisor interface.
type hypervisorFunc func(ctx context.Context, dir string) error

func (f hypervisorFunc) Up(ctx context.Context, dir string) error { return f(ctx, dir) }
