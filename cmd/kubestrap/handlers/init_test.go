package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/config/wizard"
)

func restoreInitFactories(t *testing.T) {
	t.Helper()
	origExists := fileExists
	origConfirm := confirmOverwrite
	origWizard := runWizard
	origWrite := writeConfigFile
	t.Cleanup(func() {
		fileExists = origExists
		confirmOverwrite = origConfirm
		runWizard = origWizard
		writeConfigFile = origWrite
	})
}

func validWizardResult() *wizard.WizardResult {
	return &wizard.WizardResult{
		ClusterName:        "lab",
		CoordinatorAddress: "192.168.205.10",
		WorkerCount:        2,
		Box:                "centos/7",
		MemoryMB:           2048,
		CPUs:               2,
		NetworkPlugin:      "calico",
		Adapter:            "enp0s8",
		SSHUser:            "vagrant",
	}
}

func TestInit_WritesConfig(t *testing.T) {
	restoreInitFactories(t)

	var written *config.Config
	var writtenPath string

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*wizard.WizardResult, error) { return validWizardResult(), nil }
	writeConfigFile = func(cfg *config.Config, path string) error {
		written = cfg
		writtenPath = path
		return nil
	}

	require.NoError(t, Init(context.Background(), "lab.yaml"))
	require.NotNil(t, written)
	assert.Equal(t, "lab", written.ClusterName)
	assert.Equal(t, 2, written.Workers)
	assert.Equal(t, "lab.yaml", writtenPath)
}

func TestInit_AbortsWhenOverwriteDeclined(t *testing.T) {
	restoreInitFactories(t)

	wizardRan := false
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) { return false, nil }
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		wizardRan = true
		return validWizardResult(), nil
	}

	require.NoError(t, Init(context.Background(), "lab.yaml"))
	assert.False(t, wizardRan)
}

func TestInit_WizardCancelPropagates(t *testing.T) {
	restoreInitFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	err := Init(context.Background(), "lab.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}
