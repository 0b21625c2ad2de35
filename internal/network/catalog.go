// Package network holds the fixed catalog of supported pod-network overlays
// and the per-plugin requirements the bootstrap has to honor: pod CIDR,
// manifest order, and the host-network workarounds that differ between the
// coordinator and the workers.
package network

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPlugin is returned for identifiers outside the fixed catalog.
var ErrUnknownPlugin = errors.New("unknown network plugin")

// DefaultPlugin is substituted when no plugin is selected.
const DefaultPlugin = "calico"

// ServiceCIDR is the cluster-internal service address block the init tool
// uses by default. Weave's every-node static route points at it.
const ServiceCIDR = "10.96.0.0/12"

// Manifest is one overlay manifest reference, applied in catalog order.
type Manifest struct {
	// Ref is a URL or path. When Versioned is set, Ref is a template that
	// takes the init tool's version string.
	Ref       string
	Versioned bool
}

// Resolve fills in a versioned reference with the negotiated tool version.
func (m Manifest) Resolve(toolVersion string) string {
	if !m.Versioned {
		return m.Ref
	}
	return fmt.Sprintf(m.Ref, toolVersion)
}

// Plugin describes one overlay and everything the bootstrap needs to decide
// for it. Exactly one Plugin is active per run, resolved once when the plan
// is built and never re-selected.
type Plugin struct {
	Name string

	// PodCIDR, when non-empty, must be passed verbatim to the cluster-init
	// command; the plugin's manifests assume it.
	PodCIDR string

	// Manifests are applied on the coordinator in this order.
	Manifests []Manifest

	// IfacePatch, when non-empty, is a sed program (with %s for the adapter
	// name) the coordinator applies to each manifest before installing it.
	// Needed where the bootstrap host has two adapters and the overlay's
	// agent binds the wrong one.
	IfacePatch string

	// WorkerServiceRoute marks plugins that need a static route to the
	// service CIDR via the coordinator on every worker, applied before any
	// network I/O toward the coordinator.
	WorkerServiceRoute bool
}

// RequiresPodCIDR reports whether the init command must carry a CIDR flag.
func (p Plugin) RequiresPodCIDR() bool { return p.PodCIDR != "" }

// RequiresIfaceRewrite reports the coordinator-side manifest workaround.
func (p Plugin) RequiresIfaceRewrite() bool { return p.IfacePatch != "" }

// RequiresWorkerRoute reports the every-worker static-route workaround.
func (p Plugin) RequiresWorkerRoute() bool { return p.WorkerServiceRoute }

// catalog is the fixed five-entry table. calico and canal/flannel pin
// non-overlapping pod CIDRs; weave and romana run without a CIDR flag.
// canal, flannel, and romana ship manifests that must be rewritten to the
// host-only adapter; weave instead needs the per-worker service route.
var catalog = map[string]Plugin{
	"calico": {
		Name:    "calico",
		PodCIDR: "192.168.0.0/16",
		Manifests: []Manifest{
			{Ref: "https://docs.projectcalico.org/v3.1/getting-started/kubernetes/installation/hosted/rbac-kdd.yaml"},
			{Ref: "https://docs.projectcalico.org/v3.1/getting-started/kubernetes/installation/hosted/kubernetes-datastore/calico-networking/1.7/calico.yaml"},
		},
	},
	"canal": {
		Name:    "canal",
		PodCIDR: "10.244.0.0/16",
		Manifests: []Manifest{
			{Ref: "https://raw.githubusercontent.com/projectcalico/canal/master/k8s-install/1.7/rbac.yaml"},
			{Ref: "https://raw.githubusercontent.com/projectcalico/canal/master/k8s-install/1.7/canal.yaml"},
		},
		IfacePatch: `s|- --kube-subnet-mgr|- --kube-subnet-mgr\n        - --iface=%s|`,
	},
	"flannel": {
		Name:    "flannel",
		PodCIDR: "10.244.0.0/16",
		Manifests: []Manifest{
			{Ref: "https://raw.githubusercontent.com/coreos/flannel/master/Documentation/kube-flannel.yml"},
		},
		IfacePatch: `s|- --kube-subnet-mgr|- --kube-subnet-mgr\n        - --iface=%s|`,
	},
	"weave": {
		Name: "weave",
		Manifests: []Manifest{
			{Ref: "https://cloud.weave.works/k8s/net?k8s-version=%s", Versioned: true},
		},
		WorkerServiceRoute: true,
	},
	"romana": {
		Name: "romana",
		Manifests: []Manifest{
			{Ref: "https://raw.githubusercontent.com/romana/romana/master/containerize/specs/romana-kubeadm.yml"},
		},
		IfacePatch: `s|eth0|%s|g`,
	},
}

// Resolve looks up a plugin by identifier. The caller substitutes the
// default before resolving, so an empty identifier is still unknown here.
func Resolve(identifier string) (Plugin, error) {
	p, ok := catalog[identifier]
	if !ok {
		return Plugin{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPlugin, identifier, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the catalog identifiers in stable order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
