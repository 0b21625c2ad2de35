package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownPlugins(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		p, err := Resolve(name)
		require.NoError(t, err, "plugin %s", name)
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Manifests, "plugin %s has no manifests", name)
	}
}

func TestResolve_Unknown(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "cilium", "Calico", "weave "} {
		_, err := Resolve(name)
		assert.ErrorIs(t, err, ErrUnknownPlugin, "identifier %q", name)
	}
}

func TestCatalog_CIDRRequirements(t *testing.T) {
	t.Parallel()
	tests := []struct {
		plugin string
		cidr   string
	}{
		{plugin: "calico", cidr: "192.168.0.0/16"},
		{plugin: "canal", cidr: "10.244.0.0/16"},
		{plugin: "flannel", cidr: "10.244.0.0/16"},
		{plugin: "weave", cidr: ""},
		{plugin: "romana", cidr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.plugin, func(t *testing.T) {
			t.Parallel()
			p, err := Resolve(tt.plugin)
			require.NoError(t, err)
			assert.Equal(t, tt.cidr, p.PodCIDR)
			assert.Equal(t, tt.cidr != "", p.RequiresPodCIDR())
		})
	}
}

func TestCatalog_PerRoleWorkarounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		plugin       string
		ifaceRewrite bool
		workerRoute  bool
	}{
		{plugin: "calico", ifaceRewrite: false, workerRoute: false},
		{plugin: "canal", ifaceRewrite: true, workerRoute: false},
		{plugin: "flannel", ifaceRewrite: true, workerRoute: false},
		{plugin: "weave", ifaceRewrite: false, workerRoute: true},
		{plugin: "romana", ifaceRewrite: true, workerRoute: false},
	}

	for _, tt := range tests {
		t.Run(tt.plugin, func(t *testing.T) {
			t.Parallel()
			p, err := Resolve(tt.plugin)
			require.NoError(t, err)
			assert.Equal(t, tt.ifaceRewrite, p.RequiresIfaceRewrite(), "iface rewrite")
			assert.Equal(t, tt.workerRoute, p.RequiresWorkerRoute(), "worker route")
		})
	}
}

func TestCatalog_CalicoAppliesTwoManifestsInOrder(t *testing.T) {
	t.Parallel()
	p, err := Resolve("calico")
	require.NoError(t, err)
	require.Len(t, p.Manifests, 2)
	assert.Contains(t, p.Manifests[0].Ref, "rbac")
	assert.Contains(t, p.Manifests[1].Ref, "calico.yaml")
}

func TestManifest_Resolve(t *testing.T) {
	t.Parallel()
	p, err := Resolve("weave")
	require.NoError(t, err)
	require.Len(t, p.Manifests, 1)
	require.True(t, p.Manifests[0].Versioned)
	assert.Equal(t,
		"https://cloud.weave.works/k8s/net?k8s-version=v1.11.2",
		p.Manifests[0].Resolve("v1.11.2"))

	static := Manifest{Ref: "https://example.com/overlay.yaml"}
	assert.Equal(t, "https://example.com/overlay.yaml", static.Resolve("v1.11.2"))
}
