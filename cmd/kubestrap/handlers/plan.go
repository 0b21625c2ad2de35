package handlers

import (
	"fmt"
	"strings"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/network"
	"github.com/kubestrap/kubestrap/internal/plan"
)

// Plan prints the resolved bootstrap plan without touching any machine.
func Plan(configPath string) error {
	cfg, p, err := loadPlan(configPath)
	if err != nil {
		return err
	}
	fmt.Print(renderPlan(cfg, p))
	return nil
}

// renderPlan formats the plan the way 'kubestrap up' would act on it.
func renderPlan(cfg *config.Config, p *plan.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cluster: %s\n", p.ClusterName)
	fmt.Fprintf(&b, "Adapter: %s\n", cfg.Adapter)
	fmt.Fprintf(&b, "SSH user: %s\n", cfg.SSH.User)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Network plugin: %s\n", p.Plugin.Name)
	if p.Plugin.RequiresPodCIDR() {
		fmt.Fprintf(&b, "  pod CIDR: %s\n", p.Plugin.PodCIDR)
	} else {
		b.WriteString("  pod CIDR: assigned by overlay\n")
	}
	fmt.Fprintf(&b, "  manifests: %d\n", len(p.Plugin.Manifests))
	if p.Plugin.RequiresIfaceRewrite() {
		fmt.Fprintf(&b, "  agent pinned to adapter: %s\n", cfg.Adapter)
	}
	if p.Plugin.RequiresWorkerRoute() {
		fmt.Fprintf(&b, "  per-worker route: %s via coordinator\n", network.ServiceCIDR)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Machines (%d):\n", len(p.Machines))
	for _, m := range p.Machines {
		role := "worker"
		if m.IsCoordinator() {
			role = "coordinator"
		}
		fmt.Fprintf(&b, "  %-24s %-12s %s  (%d MB, %d CPUs)\n",
			m.Name, role, m.Address, m.MemoryMB, m.CPUs)
	}

	return b.String()
}
