// Package plan turns configuration into the ordered bootstrap plan: one
// machine per node, each tagged with a role and a derived address, plus the
// single active network plugin for the run.
package plan

import (
	"fmt"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/netutil"
	"github.com/kubestrap/kubestrap/internal/network"
)

// Role is a machine's function in the cluster.
type Role string

const (
	// RoleCoordinator is the single machine that initializes the control
	// plane and mints the join credential.
	RoleCoordinator Role = "coordinator"
	// RoleWorker is a machine that joins the initialized cluster.
	RoleWorker Role = "worker"
)

// MachineSpec describes one machine to bootstrap. Immutable once planned.
type MachineSpec struct {
	Name     string
	Role     Role
	Address  string
	MemoryMB int
	CPUs     int
	Group    string
}

// IsCoordinator reports whether the machine initializes the cluster.
func (m MachineSpec) IsCoordinator() bool { return m.Role == RoleCoordinator }

// Plan is the unit handed to the bootstrap driver: the ordered machine list
// (coordinator first) and the resolved plugin. Built once, never mutated.
type Plan struct {
	ClusterName string
	Machines    []MachineSpec
	Plugin      network.Plugin
}

// Build constructs the plan from configuration. The network plugin is
// resolved here, exactly once; every later step reads it from the plan.
func Build(cfg *config.Config) (*Plan, error) {
	plugin, err := network.Resolve(cfg.NetworkPlugin)
	if err != nil {
		return nil, err
	}

	workerAddrs, err := netutil.Successors(cfg.CoordinatorAddress, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate worker addresses: %w", err)
	}

	machines := make([]MachineSpec, 0, cfg.Workers+1)
	machines = append(machines, MachineSpec{
		Name:     cfg.ClusterName + "-coordinator",
		Role:     RoleCoordinator,
		Address:  cfg.CoordinatorAddress,
		MemoryMB: cfg.Machine.MemoryMB,
		CPUs:     cfg.Machine.CPUs,
		Group:    cfg.ClusterName,
	})
	for i, addr := range workerAddrs {
		machines = append(machines, MachineSpec{
			Name:     fmt.Sprintf("%s-worker-%d", cfg.ClusterName, i+1),
			Role:     RoleWorker,
			Address:  addr,
			MemoryMB: cfg.Machine.MemoryMB,
			CPUs:     cfg.Machine.CPUs,
			Group:    cfg.ClusterName,
		})
	}

	return &Plan{
		ClusterName: cfg.ClusterName,
		Machines:    machines,
		Plugin:      plugin,
	}, nil
}

// Coordinator returns the coordinator machine.
func (p *Plan) Coordinator() MachineSpec {
	for _, m := range p.Machines {
		if m.IsCoordinator() {
			return m
		}
	}
	// Build always places a coordinator first; reaching here means the
	// plan was constructed by hand.
	panic("plan has no coordinator")
}

// Workers returns the worker machines in plan order.
func (p *Plan) Workers() []MachineSpec {
	workers := make([]MachineSpec, 0, len(p.Machines))
	for _, m := range p.Machines {
		if !m.IsCoordinator() {
			workers = append(workers, m)
		}
	}
	return workers
}
