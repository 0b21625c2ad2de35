package cluster

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/kubestrap/kubestrap/internal/network"
	"github.com/kubestrap/kubestrap/internal/plan"
	"github.com/kubestrap/kubestrap/internal/provision"
	"github.com/kubestrap/kubestrap/internal/shellcmd"
	"github.com/kubestrap/kubestrap/internal/util/keygen"
)

const initPhase = "init"

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

// Initializer runs the cluster-init sequence on the coordinator and mints
// the join credential.
type Initializer struct {
	runner  Runner
	log     Logger
	user    string
	adapter string
	trust   *keygen.KeyPair
}

// NewInitializer creates the coordinator initializer. adapter names the
// host-only network interface carrying cluster traffic.
func NewInitializer(runner Runner, log Logger, user, adapter string, trust *keygen.KeyPair) *Initializer {
	return &Initializer{runner: runner, log: log, user: user, adapter: adapter, trust: trust}
}

// Initialize drives the coordinator through init and returns the join
// credential. Init and credential-mint failures are fatal; overlay manifest
// failures are logged and the bootstrap continues with degraded networking.
// Re-running against an already-initialized coordinator reuses its existing
// credential instead of re-initializing.
func (i *Initializer) Initialize(ctx context.Context, m plan.MachineSpec, plugin network.Plugin) (*JoinCredential, error) {
	if cred, ok := i.existingCredential(ctx, m); ok {
		i.log.Printf("[%s] %s already initialized, reusing join credential", initPhase, m.Name)
		return cred, nil
	}

	addr, err := i.clusterAddress(ctx, m)
	if err != nil {
		return nil, err
	}

	i.log.Printf("[%s] Initializing cluster on %s (%s) with plugin %s...", initPhase, m.Name, addr, plugin.Name)
	if plugin.RequiresPodCIDR() {
		i.log.Printf("[%s] Plugin %s requires pod CIDR %s", initPhase, plugin.Name, plugin.PodCIDR)
	}
	if _, err := i.runner.Run(ctx, m.Address, shellcmd.KubeadmInit(addr, plugin.PodCIDR)); err != nil {
		return nil, fmt.Errorf("cluster init on %s: %w", m.Name, err)
	}

	if err := i.installAdminCredential(ctx, m); err != nil {
		return nil, fmt.Errorf("install admin credential on %s: %w", m.Name, err)
	}

	i.applyOverlayManifests(ctx, m, plugin)

	cred, err := i.mintJoinCredential(ctx, m, addr)
	if err != nil {
		return nil, fmt.Errorf("mint join credential on %s: %w", m.Name, err)
	}

	if err := provision.EnsureAuthorizedKey(ctx, i.runner, m.Address, i.user, i.trust.PublicKey); err != nil {
		return nil, fmt.Errorf("authorize trust key on %s: %w", m.Name, err)
	}

	i.log.Printf("[%s] Coordinator %s initialized", initPhase, m.Name)
	return cred, nil
}

// existingCredential detects a previous successful run: admin credential and
// join script both present.
func (i *Initializer) existingCredential(ctx context.Context, m plan.MachineSpec) (*JoinCredential, bool) {
	if _, err := i.runner.Run(ctx, m.Address, shellcmd.FileExists(AdminCredentialPath)); err != nil {
		return nil, false
	}
	script, err := i.runner.Fetch(ctx, m.Address, JoinScriptPath)
	if err != nil || len(script) == 0 {
		return nil, false
	}
	return &JoinCredential{Endpoint: m.Address, ScriptPath: JoinScriptPath, Script: script}, true
}

// clusterAddress reads the address configured on the cluster-facing adapter.
// The planned address is the expectation; the adapter is the authority.
func (i *Initializer) clusterAddress(ctx context.Context, m plan.MachineSpec) (string, error) {
	out, err := i.runner.Run(ctx, m.Address, shellcmd.InterfaceAddr(i.adapter))
	if err != nil {
		return "", fmt.Errorf("read adapter %s on %s: %w", i.adapter, m.Name, err)
	}
	addr := strings.TrimSpace(out)
	if addr == "" {
		return "", fmt.Errorf("adapter %s on %s has no IPv4 address", i.adapter, m.Name)
	}
	if addr != m.Address {
		i.log.Printf("[%s] %s adapter address %s differs from planned %s, using adapter address",
			initPhase, m.Name, addr, m.Address)
	}
	return addr, nil
}

// installAdminCredential makes the admin credential usable by the operating
// user, the way the init tool's own instructions do.
func (i *Initializer) installAdminCredential(ctx context.Context, m plan.MachineSpec) error {
	kubeDir := path.Join("/home", i.user, ".kube")
	kubeConfig := path.Join(kubeDir, "config")
	for _, cmd := range []shellcmd.Command{
		shellcmd.MakeDir(kubeDir),
		shellcmd.CopyFile(AdminCredentialPath, kubeConfig),
		shellcmd.Chown(i.user, kubeConfig),
	} {
		if _, err := i.runner.Run(ctx, m.Address, cmd); err != nil {
			return err
		}
	}
	return nil
}

// applyOverlayManifests applies the plugin's manifests in catalog order.
// Failures here leave the cluster with degraded networking but do not stop
// the bootstrap: the credential can still be issued and the overlay can
// converge later.
func (i *Initializer) applyOverlayManifests(ctx context.Context, m plan.MachineSpec, plugin network.Plugin) {
	toolVersion := ""
	for _, manifest := range plugin.Manifests {
		if manifest.Versioned && toolVersion == "" {
			out, err := i.runner.Run(ctx, m.Address, shellcmd.KubeadmVersion())
			if err != nil {
				i.log.Printf("[%s] WARNING: version negotiation for %s manifest failed on %s: %v (continuing)",
					initPhase, plugin.Name, m.Name, err)
				continue
			}
			toolVersion = strings.TrimSpace(out)
		}

		ref := manifest.Resolve(toolVersion)
		var cmd shellcmd.Command
		if plugin.RequiresIfaceRewrite() {
			cmd = shellcmd.KubectlApplyPatched(ref, fmt.Sprintf(plugin.IfacePatch, i.adapter))
		} else {
			cmd = shellcmd.KubectlApply(ref)
		}

		if _, err := i.runner.Run(ctx, m.Address, cmd); err != nil {
			applyErr := &NetworkApplyError{Machine: m.Name, Manifest: ref, Err: err}
			i.log.Printf("[%s] WARNING: %v (continuing, networking degraded)", initPhase, applyErr)
			continue
		}
		i.log.Printf("[%s] Applied %s manifest %s", initPhase, plugin.Name, ref)
	}
}

// mintJoinCredential generates the join script, persists it at the
// well-known path with execute permission, and reads it back.
func (i *Initializer) mintJoinCredential(ctx context.Context, m plan.MachineSpec, addr string) (*JoinCredential, error) {
	if _, err := i.runner.Run(ctx, m.Address, shellcmd.KubeadmMintJoinScript(JoinScriptPath)); err != nil {
		return nil, err
	}
	if _, err := i.runner.Run(ctx, m.Address, shellcmd.MakeExecutable(JoinScriptPath)); err != nil {
		return nil, err
	}
	script, err := i.runner.Fetch(ctx, m.Address, JoinScriptPath)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(script))) == 0 {
		return nil, fmt.Errorf("minted join script at %s is empty", JoinScriptPath)
	}
	return &JoinCredential{Endpoint: addr, ScriptPath: JoinScriptPath, Script: script}, nil
}
