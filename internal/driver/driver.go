// Package driver sequences the bootstrap: provision every planned machine,
// initialize the coordinator, then join the workers. The
// coordinator-before-workers ordering is a checked precondition, not an
// accident of loop order.
package driver

import (
	"context"
	"fmt"

	"github.com/kubestrap/kubestrap/internal/cluster"
	"github.com/kubestrap/kubestrap/internal/network"
	"github.com/kubestrap/kubestrap/internal/plan"
	"github.com/kubestrap/kubestrap/internal/util/async"
)

// Status is a machine's position in the bootstrap state machine:
// Planned → Provisioned → (Initialized | Joined) → Done, with Failed
// reachable from any state.
type Status string

const (
	StatusPlanned     Status = "planned"
	StatusProvisioned Status = "provisioned"
	StatusInitialized Status = "initialized"
	StatusJoined      Status = "joined"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
)

// MachineState is one machine's progress through the run.
type MachineState struct {
	Spec   plan.MachineSpec
	Status Status
	Err    error
}

// Provisioner prepares a machine for cluster duty.
type Provisioner interface {
	Provision(ctx context.Context, m plan.MachineSpec) error
}

// Initializer initializes the coordinator and mints the join credential.
type Initializer interface {
	Initialize(ctx context.Context, m plan.MachineSpec, plugin network.Plugin) (*cluster.JoinCredential, error)
}

// Joiner attaches a worker to the initialized cluster.
type Joiner interface {
	Join(ctx context.Context, m plan.MachineSpec, cred *cluster.JoinCredential, plugin network.Plugin) error
}

// Logger receives progress output.
type Logger interface {
	Printf(format string, v ...any)
}

// Result is the run outcome handed back to the operator.
type Result struct {
	States        []MachineState
	Credential    *cluster.JoinCredential
	JoinedWorkers int
	TotalWorkers  int
}

// Summary is the one-line outcome an operator reads first.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d of %d workers joined", r.JoinedWorkers, r.TotalWorkers)
}

// Failed lists the machines that did not complete, with their errors.
func (r *Result) Failed() []MachineState {
	var failed []MachineState
	for _, s := range r.States {
		if s.Status == StatusFailed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Driver executes a bootstrap plan.
type Driver struct {
	plan          *plan.Plan
	provisioner   Provisioner
	initializer   Initializer
	joiner        Joiner
	log           Logger
	parallelJoins int
}

// Option adjusts driver behavior.
type Option func(*Driver)

// WithParallelJoins lets up to n workers join concurrently once the
// coordinator barrier is satisfied. Workers share no mutable state beyond
// read access to the credential, so this is safe; the default is sequential.
func WithParallelJoins(n int) Option {
	return func(d *Driver) { d.parallelJoins = n }
}

// New creates a driver for the plan.
func New(p *plan.Plan, prov Provisioner, init Initializer, join Joiner, log Logger, opts ...Option) *Driver {
	d := &Driver{
		plan:          p,
		provisioner:   prov,
		initializer:   init,
		joiner:        join,
		log:           log,
		parallelJoins: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drives every machine through the state machine. A worker failure is
// recorded and the run continues; a coordinator failure aborts the run,
// since without it there is no cluster to join. The returned Result is
// populated even when Run returns an error.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	states := make([]*MachineState, len(d.plan.Machines))
	for i, m := range d.plan.Machines {
		states[i] = &MachineState{Spec: m, Status: StatusPlanned}
	}
	result := &Result{TotalWorkers: len(d.plan.Workers())}

	if err := d.provisionAll(ctx, states); err != nil {
		return collect(result, states), err
	}

	cred, err := d.initializeCoordinator(ctx, states)
	if err != nil {
		return collect(result, states), err
	}
	result.Credential = cred

	d.joinWorkers(ctx, states, cred)

	for _, s := range states {
		switch s.Status {
		case StatusInitialized:
			s.Status = StatusDone
		case StatusJoined:
			s.Status = StatusDone
			result.JoinedWorkers++
		}
	}
	d.log.Printf("[driver] Bootstrap finished: %s", result.Summary())
	return collect(result, states), nil
}

// provisionAll prepares machines in plan order. The provisioning
// collaborator serializes machine builds, so this phase is sequential.
func (d *Driver) provisionAll(ctx context.Context, states []*MachineState) error {
	for _, s := range states {
		if err := d.provisioner.Provision(ctx, s.Spec); err != nil {
			s.Status = StatusFailed
			s.Err = &ProvisionError{Machine: s.Spec.Name, Err: err}
			d.log.Printf("[driver] %v", s.Err)
			if s.Spec.IsCoordinator() {
				return fmt.Errorf("coordinator failed, no cluster to build: %w", s.Err)
			}
			continue
		}
		s.Status = StatusProvisioned
	}
	return nil
}

// initializeCoordinator runs the init sequence on the coordinator and
// records the barrier state every worker join checks against.
func (d *Driver) initializeCoordinator(ctx context.Context, states []*MachineState) (*cluster.JoinCredential, error) {
	coord := coordinatorState(states)
	cred, err := d.initializer.Initialize(ctx, coord.Spec, d.plan.Plugin)
	if err != nil {
		coord.Status = StatusFailed
		coord.Err = &InitError{Machine: coord.Spec.Name, Err: err}
		return nil, coord.Err
	}
	coord.Status = StatusInitialized
	d.log.Printf("[driver] Coordinator %s initialized, releasing worker barrier", coord.Spec.Name)
	return cred, nil
}

// joinWorkers joins every provisioned worker, optionally in parallel. Each
// join re-checks the coordinator barrier explicitly.
func (d *Driver) joinWorkers(ctx context.Context, states []*MachineState, cred *cluster.JoinCredential) {
	coord := coordinatorState(states)

	var tasks []async.Task
	var workerStates []*MachineState
	for _, s := range states {
		if s.Spec.IsCoordinator() || s.Status == StatusFailed {
			continue
		}
		workerStates = append(workerStates, s)
		spec := s.Spec
		tasks = append(tasks, async.Task{
			Name: spec.Name,
			Func: func(ctx context.Context) error {
				return d.joinWorker(ctx, spec, coord, cred)
			},
		})
	}

	for i, res := range async.Run(ctx, tasks, d.parallelJoins) {
		s := workerStates[i]
		if res.Err != nil {
			s.Status = StatusFailed
			s.Err = &JoinError{Machine: s.Spec.Name, Err: res.Err}
			d.log.Printf("[driver] %v", s.Err)
			continue
		}
		s.Status = StatusJoined
	}
}

// joinWorker enforces the barrier before the join sequence touches the
// network: no worker joins a cluster whose coordinator has not reached
// Initialized.
func (d *Driver) joinWorker(ctx context.Context, spec plan.MachineSpec, coord *MachineState, cred *cluster.JoinCredential) error {
	if coord.Status != StatusInitialized || cred == nil {
		return fmt.Errorf("coordinator %s not initialized (status %s): barrier not satisfied", coord.Spec.Name, coord.Status)
	}
	return d.joiner.Join(ctx, spec, cred, d.plan.Plugin)
}

func coordinatorState(states []*MachineState) *MachineState {
	for _, s := range states {
		if s.Spec.IsCoordinator() {
			return s
		}
	}
	panic("plan has no coordinator")
}

func collect(result *Result, states []*MachineState) *Result {
	result.States = make([]MachineState, len(states))
	for i, s := range states {
		result.States[i] = *s
	}
	return result
}
