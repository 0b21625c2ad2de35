// Package provision prepares a machine for cluster duty: container runtime,
// orchestration agent, kernel networking prerequisites, swap off, and the
// trust material workers later use to reach the coordinator. The steps are
// identical for every role.
package provision

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"

	"github.com/kubestrap/kubestrap/internal/plan"
	"github.com/kubestrap/kubestrap/internal/shellcmd"
	"github.com/kubestrap/kubestrap/internal/util/keygen"
)

const phase = "provision"

// StateDir is the per-machine directory for bootstrap state. It is owned by
// the operating user so the join credential can be written there without
// privilege.
const StateDir = "/etc/kubestrap"

// markerPath records that provisioning already completed on a machine, so a
// re-run after partial failure skips instead of failing.
const markerPath = StateDir + "/provisioned"

// TrustKeyName is the file name of the staged private trust key under the
// operating user's ~/.ssh.
const TrustKeyName = "id_kubestrap"

// packages installed on every machine: container runtime plus the
// orchestration agent and its tooling.
var packages = []string{"docker", "kubelet", "kubeadm", "kubectl"}

// Runner executes commands and stages files on a machine. Implemented by
// the remote execute/copy collaborator.
type Runner interface {
	Run(ctx context.Context, host string, cmd shellcmd.Command) (string, error)
	Put(ctx context.Context, host, path string, data []byte, mode fs.FileMode) error
	Fetch(ctx context.Context, host, path string) ([]byte, error)
}

// Logger receives progress output.
type Logger interface {
	Printf(format string, v ...any)
}

// Provisioner installs the node prerequisites over the remote channel.
type Provisioner struct {
	runner Runner
	log    Logger
	user   string
	trust  *keygen.KeyPair
}

// New creates a node provisioner. The trust key pair is staged on every
// machine so workers can later fetch the join artifact from the coordinator.
func New(runner Runner, log Logger, user string, trust *keygen.KeyPair) *Provisioner {
	return &Provisioner{runner: runner, log: log, user: user, trust: trust}
}

// Provision runs the full node preparation sequence on the machine.
// Re-running on an already-provisioned machine detects the state marker and
// skips.
func (p *Provisioner) Provision(ctx context.Context, m plan.MachineSpec) error {
	if p.isProvisioned(ctx, m) {
		p.log.Printf("[%s] %s already provisioned, skipping", phase, m.Name)
		return nil
	}

	p.log.Printf("[%s] Preparing %s (%s)...", phase, m.Name, m.Address)

	steps := []struct {
		name string
		cmd  shellcmd.Command
	}{
		{name: "bridge iptables sysctl", cmd: shellcmd.SysctlSet("net.bridge.bridge-nf-call-iptables", "1")},
		{name: "ip forward sysctl", cmd: shellcmd.SysctlSet("net.ipv4.ip_forward", "1")},
		{name: "disable swap", cmd: shellcmd.DisableSwap()},
		{name: "disable swap persistently", cmd: shellcmd.DisableSwapPersistent()},
		{name: "install packages", cmd: shellcmd.InstallPackages(packages...)},
		{name: "enable container runtime", cmd: shellcmd.EnableService("docker")},
		{name: "enable agent", cmd: shellcmd.EnableService("kubelet")},
		{name: "create state dir", cmd: shellcmd.MakeDir(StateDir)},
		{name: "own state dir", cmd: shellcmd.Chown(p.user, StateDir)},
	}
	for _, step := range steps {
		if _, err := p.runner.Run(ctx, m.Address, step.cmd); err != nil {
			return fmt.Errorf("%s on %s: %w", step.name, m.Name, err)
		}
	}

	if err := p.stageTrustMaterial(ctx, m); err != nil {
		return fmt.Errorf("stage trust material on %s: %w", m.Name, err)
	}

	if err := p.runner.Put(ctx, m.Address, markerPath, []byte("provisioned\n"), 0o644); err != nil {
		return fmt.Errorf("write state marker on %s: %w", m.Name, err)
	}

	p.log.Printf("[%s] %s ready", phase, m.Name)
	return nil
}

// isProvisioned checks the state marker from a previous run.
func (p *Provisioner) isProvisioned(ctx context.Context, m plan.MachineSpec) bool {
	_, err := p.runner.Run(ctx, m.Address, shellcmd.FileExists(markerPath))
	return err == nil
}

// stageTrustMaterial installs the run's key pair: the private half for
// outbound fetches, the public half on the authorized-trust list.
func (p *Provisioner) stageTrustMaterial(ctx context.Context, m plan.MachineSpec) error {
	keyPath := path.Join("/home", p.user, ".ssh", TrustKeyName)
	if err := p.runner.Put(ctx, m.Address, keyPath, p.trust.PrivateKey, 0o600); err != nil {
		return err
	}
	return EnsureAuthorizedKey(ctx, p.runner, m.Address, p.user, p.trust.PublicKey)
}

// EnsureAuthorizedKey appends publicKey to the user's authorized-trust list
// on the machine at host, unless it is already present. Idempotent so
// re-runs do not grow the list.
func EnsureAuthorizedKey(ctx context.Context, r Runner, host, user string, publicKey []byte) error {
	authorizedPath := path.Join("/home", user, ".ssh", "authorized_keys")

	// Missing authorized_keys is fine on a fresh machine.
	existing, err := r.Fetch(ctx, host, authorizedPath)
	if err != nil {
		existing = nil
	}
	if bytes.Contains(existing, bytes.TrimSpace(publicKey)) {
		return nil
	}
	updated := append(existing, publicKey...)
	return r.Put(ctx, host, authorizedPath, updated, 0o600)
}
