package driver

import "fmt"

// The error taxonomy mirrors the run's phases. Every error names the
// offending machine; nothing is swallowed. ConfigError and InitError abort
// the run, ProvisionError aborts only for the coordinator, JoinError is
// recorded per worker and summarized.

// ConfigError is a pre-run configuration failure. No machine work has
// happened when one is returned.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("configuration: %v", e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }

// ProvisionError is a node preparation failure on one machine.
type ProvisionError struct {
	Machine string
	Err     error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision %s: %v", e.Machine, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// InitError is a coordinator init or credential-mint failure. Always fatal
// for the run: without it there is no cluster to join.
type InitError struct {
	Machine string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Machine, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// JoinError is a worker join failure. The run continues for the remaining
// workers; the summary reports the short cluster.
type JoinError struct {
	Machine string
	Err     error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join %s: %v", e.Machine, e.Err)
}

func (e *JoinError) Unwrap() error { return e.Err }
