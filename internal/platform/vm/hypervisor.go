package vm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Hypervisor brings declared machines up on the private network.
type Hypervisor interface {
	// Up ensures every machine in the manifest at dir is running and
	// reachable at its declared address. The collaborator serializes
	// machine builds and owns its own timeouts and retries.
	Up(ctx context.Context, dir string) error
}

// CLI drives an external hypervisor command in a working directory that
// contains the machine manifest.
type CLI struct {
	// Bin is the hypervisor command. Empty means "vagrant".
	Bin string
}

// Up runs "<bin> up" in dir, streaming the collaborator's output through.
func (c CLI) Up(ctx context.Context, dir string) error {
	bin := c.Bin
	if bin == "" {
		bin = "vagrant"
	}

	cmd := exec.CommandContext(ctx, bin, "up")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hypervisor %q failed in %s: %w", bin, dir, err)
	}
	return nil
}
