package cluster

import "fmt"

// NetworkApplyError is an overlay manifest failure on the coordinator. It is
// logged and the bootstrap continues: the credential can still be issued and
// the overlay may converge later, but networking is degraded until an
// operator follows up.
type NetworkApplyError struct {
	Machine  string
	Manifest string
	Err      error
}

func (e *NetworkApplyError) Error() string {
	return fmt.Sprintf("apply overlay manifest %s on %s: %v", e.Manifest, e.Machine, e.Err)
}

func (e *NetworkApplyError) Unwrap() error { return e.Err }
