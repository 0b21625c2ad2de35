// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/kubestrap/kubestrap/internal/cluster"
	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/driver"
	"github.com/kubestrap/kubestrap/internal/health"
	"github.com/kubestrap/kubestrap/internal/plan"
	"github.com/kubestrap/kubestrap/internal/platform/ssh"
	"github.com/kubestrap/kubestrap/internal/platform/vm"
	"github.com/kubestrap/kubestrap/internal/provision"
	"github.com/kubestrap/kubestrap/internal/shellcmd"
	"github.com/kubestrap/kubestrap/internal/ui"
	"github.com/kubestrap/kubestrap/internal/util/keygen"
)

const (
	// machinesDir is where the hypervisor manifest is written and where the
	// hypervisor command runs.
	machinesDir = ".kubestrap"

	manifestName   = "machines.yaml"
	kubeconfigPath = "kubeconfig"
)

// remoteRunner is the remote execute/copy channel shared by the bootstrap
// collaborators.
type remoteRunner interface {
	Run(ctx context.Context, host string, cmd shellcmd.Command) (string, error)
	Put(ctx context.Context, host, path string, data []byte, mode fs.FileMode) error
	Fetch(ctx context.Context, host, path string) ([]byte, error)
}

// bootstrapDriver matches driver.Driver for testing.
type bootstrapDriver interface {
	Run(ctx context.Context) (*driver.Result, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// writeManifestFile writes the hypervisor machine manifest.
	writeManifestFile = vm.WriteManifestFile

	// newHypervisor creates the machine-provisioning collaborator.
	newHypervisor = func() vm.Hypervisor { return vm.CLI{} }

	// generateTrustKey mints the per-run worker-to-coordinator key pair.
	generateTrustKey = keygen.GenerateKeyPair

	// loadTrustKey reuses a configured key pair.
	loadTrustKey = keygen.LoadKeyPair

	// newRemoteRunner creates the remote execute/copy channel.
	newRemoteRunner = func(cfg *ssh.Config) (remoteRunner, error) { return ssh.NewRunner(cfg) }

	// newDriver creates the bootstrap state machine.
	newDriver = func(p *plan.Plan, prov driver.Provisioner, init driver.Initializer, join driver.Joiner, logger driver.Logger, parallelJoins int) bootstrapDriver {
		return driver.New(p, prov, init, join, logger, driver.WithParallelJoins(parallelJoins))
	}

	// newClientset builds an API client from admin credential bytes.
	newClientset = health.NewClientset

	// checkHealth reports node readiness.
	checkHealth = health.Check

	// writeFile writes data to a file.
	writeFile = os.WriteFile

	// readFile reads a file.
	readFile = os.ReadFile
)

// Up bootstraps the cluster described by the configuration file.
//
// The workflow:
//  1. Load and validate the configuration; resolve the overlay plugin
//  2. Derive the machine plan (coordinator address, worker successors)
//  3. Write the hypervisor manifest and bring the machines up
//  4. Provision every machine, initialize the coordinator, join the workers
//  5. Fetch the admin credential back and report node readiness
//
// Pre-flight failures are configuration errors; once machine work starts,
// per-machine failures are classified by the driver.
func Up(ctx context.Context, configPath string, parallelJoins int) error {
	cfg, p, err := loadPlan(configPath)
	if err != nil {
		return err
	}

	log.Printf("Bootstrapping cluster %s: 1 coordinator, %d workers, plugin %s",
		cfg.ClusterName, len(p.Workers()), p.Plugin.Name)

	if err := bringUpMachines(ctx, cfg, p); err != nil {
		return err
	}

	trust, err := trustKeyPair(cfg)
	if err != nil {
		return &driver.ConfigError{Err: err}
	}

	runner, err := remoteChannel(cfg)
	if err != nil {
		return &driver.ConfigError{Err: err}
	}

	logger := driver.ConsoleLogger{}
	d := newDriver(p,
		provision.New(runner, logger, cfg.SSH.User, trust),
		cluster.NewInitializer(runner, logger, cfg.SSH.User, cfg.Adapter, trust),
		cluster.NewJoiner(runner, logger, cfg.SSH.User),
		logger, parallelJoins)

	result, runErr := d.Run(ctx)
	fmt.Print(ui.RenderSummary(cfg.ClusterName, result, ui.IsInteractiveTTY()))
	if runErr != nil {
		return runErr
	}

	fetchAdminCredential(ctx, runner, result)
	reportHealth(ctx, result)
	return nil
}

// loadPlan loads the configuration and derives the machine plan. If
// configPath is empty, it looks for kubestrap.yaml in the current directory.
func loadPlan(configPath string) (*config.Config, *plan.Plan, error) {
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, nil, &driver.ConfigError{Err: err}
	}
	p, err := plan.Build(cfg)
	if err != nil {
		return nil, nil, &driver.ConfigError{Err: err}
	}
	return cfg, p, nil
}

// bringUpMachines writes the machine manifest and asks the hypervisor layer
// to bring every machine up.
func bringUpMachines(ctx context.Context, cfg *config.Config, p *plan.Plan) error {
	defs := vm.DefinitionsFromPlan(p, cfg.Machine)
	manifestPath := filepath.Join(machinesDir, manifestName)
	if err := writeManifestFile(manifestPath, defs); err != nil {
		return &driver.ConfigError{Err: err}
	}

	log.Printf("Bringing up %d machines...", len(defs))
	if err := newHypervisor().Up(ctx, machinesDir); err != nil {
		return fmt.Errorf("machine bring-up failed: %w", err)
	}
	return nil
}

// trustKeyPair loads the configured worker-to-coordinator key pair, or mints
// one for this run.
func trustKeyPair(cfg *config.Config) (*keygen.KeyPair, error) {
	if cfg.SSH.TrustKeyPath != "" {
		return loadTrustKey(cfg.SSH.TrustKeyPath)
	}
	return generateTrustKey("kubestrap-" + cfg.ClusterName)
}

// remoteChannel builds the SSH runner from the configured operator key.
func remoteChannel(cfg *config.Config) (remoteRunner, error) {
	keyPath := cfg.SSH.PrivateKeyPath
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		keyPath = filepath.Join(home, ".vagrant.d", "insecure_private_key")
	}

	key, err := readFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh private key: %w", err)
	}

	return newRemoteRunner(&ssh.Config{User: cfg.SSH.User, PrivateKey: key})
}

// fetchAdminCredential copies the admin credential off the coordinator so
// the operator can reach the cluster directly. Failure here is reported but
// does not fail the bootstrap; the credential stays on the coordinator.
func fetchAdminCredential(ctx context.Context, runner remoteRunner, result *driver.Result) {
	if result.Credential == nil {
		return
	}
	data, err := runner.Fetch(ctx, result.Credential.Endpoint, cluster.AdminCredentialPath)
	if err != nil {
		log.Printf("WARNING: could not fetch admin credential: %v", err)
		return
	}
	if err := writeFile(kubeconfigPath, data, 0600); err != nil {
		log.Printf("WARNING: could not write %s: %v", kubeconfigPath, err)
		return
	}

	fmt.Printf("\nKubeconfig saved to: %s\n", kubeconfigPath)
	fmt.Printf("You can now access your cluster with:\n")
	fmt.Printf("  export KUBECONFIG=%s\n", kubeconfigPath)
	fmt.Printf("  kubectl get nodes\n")
}

// reportHealth asks the API server how many nodes are ready. Freshly joined
// workers often take another minute, so this is informational only.
func reportHealth(ctx context.Context, result *driver.Result) {
	data, err := readFile(kubeconfigPath)
	if err != nil {
		return
	}
	clientset, err := newClientset(data)
	if err != nil {
		log.Printf("WARNING: could not build API client: %v", err)
		return
	}
	report, err := checkHealth(ctx, clientset)
	if err != nil {
		log.Printf("WARNING: node readiness check failed: %v", err)
		return
	}
	fmt.Printf("\nNode readiness: %s\n", report.Summary())
}
