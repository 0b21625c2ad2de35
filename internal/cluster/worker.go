package cluster

import (
	"context"
	"fmt"
	"path"

	"github.com/kubestrap/kubestrap/internal/network"
	"github.com/kubestrap/kubestrap/internal/plan"
	"github.com/kubestrap/kubestrap/internal/provision"
	"github.com/kubestrap/kubestrap/internal/shellcmd"
)

const joinPhase = "join"

// Joiner attaches workers to an initialized cluster by consuming the join
// credential from the coordinator.
type Joiner struct {
	runner Runner
	log    Logger
	user   string
}

// NewJoiner creates a worker joiner.
func NewJoiner(runner Runner, log Logger, user string) *Joiner {
	return &Joiner{runner: runner, log: log, user: user}
}

// Join runs the worker join sequence: plugin-specific static route first,
// then fetch the join script from the coordinator over the trusted channel
// and execute it. Any failure is fatal for this worker: a short cluster
// must be reported, never silently accepted. Re-running against a joined
// worker detects the agent credential and skips.
func (j *Joiner) Join(ctx context.Context, m plan.MachineSpec, cred *JoinCredential, plugin network.Plugin) error {
	if j.isJoined(ctx, m) {
		j.log.Printf("[%s] %s already joined, skipping", joinPhase, m.Name)
		return nil
	}

	// Weave needs every worker to reach the cluster-internal service range
	// through the coordinator before the overlay converges.
	if plugin.RequiresWorkerRoute() {
		j.log.Printf("[%s] Adding service route on %s via %s", joinPhase, m.Name, cred.Endpoint)
		if _, err := j.runner.Run(ctx, m.Address, shellcmd.RouteReplace(network.ServiceCIDR, cred.Endpoint)); err != nil {
			return fmt.Errorf("service route on %s: %w", m.Name, err)
		}
	}

	identity := path.Join("/home", j.user, ".ssh", provision.TrustKeyName)
	fetch := shellcmd.ScpFetch(j.user, cred.Endpoint, cred.ScriptPath, JoinScriptPath, identity)
	j.log.Printf("[%s] Fetching join credential on %s from %s...", joinPhase, m.Name, cred.Endpoint)
	if _, err := j.runner.Run(ctx, m.Address, fetch); err != nil {
		return fmt.Errorf("fetch join credential on %s: %w", m.Name, err)
	}

	j.log.Printf("[%s] Joining %s...", joinPhase, m.Name)
	if _, err := j.runner.Run(ctx, m.Address, shellcmd.RunScript(JoinScriptPath)); err != nil {
		return fmt.Errorf("execute join script on %s: %w", m.Name, err)
	}

	j.log.Printf("[%s] Worker %s joined", joinPhase, m.Name)
	return nil
}

// isJoined checks for the agent credential a successful join leaves behind.
func (j *Joiner) isJoined(ctx context.Context, m plan.MachineSpec) bool {
	_, err := j.runner.Run(ctx, m.Address, shellcmd.FileExists(workerJoinedMarker))
	return err == nil
}
