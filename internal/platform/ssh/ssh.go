// Package ssh is the boundary to the remote execute/copy collaborator. It
// runs the typed commands the bootstrap builds on any machine in the plan
// and stages files both ways over the same channel.
//
// Host-key verification is relaxed by default: the machines live on a
// closed private lab network and are rebuilt on every run. Set
// HostKeyCallback for anything longer-lived.
package ssh

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/kubestrap/kubestrap/internal/shellcmd"
	"github.com/kubestrap/kubestrap/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultAttempts    = 12
	defaultRetryDelay  = 5 * time.Second
	defaultMaxDelay    = 15 * time.Second
)

// Config holds the client configuration shared by every machine.
type Config struct {
	User       string
	Port       int
	PrivateKey []byte

	// DialTimeout bounds each TCP connection attempt.
	DialTimeout time.Duration

	// Attempts is the connection attempt budget per command. Machines can
	// take a while to come up after the hypervisor reports them running.
	Attempts int

	// RetryDelay is the initial delay between connection attempts.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification. Nil means
	// ssh.InsecureIgnoreHostKey, which is intentional for this network.
	HostKeyCallback ssh.HostKeyCallback
}

// Runner executes commands and stages files on machines by address. The
// private key is parsed once; connections are made per call.
type Runner struct {
	config *Config
	signer ssh.Signer
}

// NewRunner creates a Runner and validates the private key.
func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.Attempts == 0 {
		configCopy.Attempts = defaultAttempts
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Closed lab network, machines are ephemeral.
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Runner{config: &configCopy, signer: signer}, nil
}

// Run executes cmd on the machine at host and returns combined output.
func (r *Runner) Run(ctx context.Context, host string, cmd shellcmd.Command) (string, error) {
	client, err := r.connect(ctx, host)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session on %s: %w", host, err)
	}
	defer func() { _ = session.Close() }()

	rendered := cmd.String()
	output, err := session.CombinedOutput(rendered)
	if err != nil {
		return string(output), fmt.Errorf("command failed on %s: %w\nCommand: %s\nOutput: %s",
			host, err, rendered, string(output))
	}
	return string(output), nil
}

// Put stages data at remote path on the machine with the given mode.
func (r *Runner) Put(ctx context.Context, host, remotePath string, data []byte, mode fs.FileMode) error {
	client, err := r.connect(ctx, host)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session on %s: %w", host, err)
	}
	defer func() { _ = session.Close() }()

	session.Stdin = bytes.NewReader(data)
	cmd := fmt.Sprintf("mkdir -p %s && cat > %s && chmod %o %s",
		shellcmd.Quote(path.Dir(remotePath)),
		shellcmd.Quote(remotePath),
		mode.Perm(),
		shellcmd.Quote(remotePath))
	if output, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("failed to stage %s on %s: %w\nOutput: %s", remotePath, host, err, string(output))
	}
	return nil
}

// Fetch reads the file at remote path on the machine.
func (r *Runner) Fetch(ctx context.Context, host, remotePath string) ([]byte, error) {
	client, err := r.connect(ctx, host)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session on %s: %w", host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.Output(shellcmd.ReadFile(remotePath).String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from %s: %w", remotePath, host, err)
	}
	return output, nil
}

// connect dials the machine with retry; fresh machines keep refusing
// connections for a while after they boot.
func (r *Runner) connect(ctx context.Context, host string) (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User:            r.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(r.signer)},
		HostKeyCallback: r.config.HostKeyCallback,
		Timeout:         r.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", host, r.config.Port)
	var client *ssh.Client

	err := retry.Do(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, clientConfig)
		return dialErr
	},
		retry.WithAttempts(r.config.Attempts),
		retry.WithDelay(r.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}
	return client, nil
}
