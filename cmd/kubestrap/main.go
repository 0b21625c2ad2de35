// Package main is the entry point for the kubestrap CLI.
//
// kubestrap bootstraps a multi-machine Kubernetes cluster on a private lab
// network: it brings up the machines, installs the node prerequisites,
// initializes the coordinator, installs the selected pod-network overlay,
// and joins the workers.
//
// Commands: init, up, plan.
//
// For detailed usage information, run:
//
//	kubestrap --help
package main

import (
	"fmt"
	"os"

	"github.com/kubestrap/kubestrap/cmd/kubestrap/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
