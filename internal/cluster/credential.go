// Package cluster drives the two role-specific bootstrap sequences: the
// coordinator's init (which produces the join credential) and each worker's
// join (which consumes it).
package cluster

import "github.com/kubestrap/kubestrap/internal/provision"

// JoinScriptPath is the well-known location of the join credential on the
// coordinator, and the location workers fetch it to before executing it.
const JoinScriptPath = provision.StateDir + "/join.sh"

// AdminCredentialPath is where the cluster-init tool leaves the admin
// credential on the coordinator.
const AdminCredentialPath = "/etc/kubernetes/admin.conf"

// workerJoinedMarker exists on a machine once the agent has joined a
// cluster. Used to make worker re-runs idempotent.
const workerJoinedMarker = "/etc/kubernetes/kubelet.conf"

// JoinCredential is the single-use token artifact minted by the coordinator
// after a successful init. It is produced exactly once per run and read by
// every worker; a re-join reuses it, a new one is never minted for that.
type JoinCredential struct {
	// Endpoint is the coordinator's cluster-facing address.
	Endpoint string
	// ScriptPath is the credential's well-known path on the coordinator.
	ScriptPath string
	// Script is the credential content, stable for the whole run.
	Script []byte
}
