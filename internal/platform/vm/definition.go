// Package vm is the boundary to the provisioning collaborator: the
// hypervisor layer that turns declarative machine definitions into running
// machines on the private network. The bootstrap only produces the
// definitions and asks for them to be brought up; everything below that
// line belongs to the collaborator.
package vm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kubestrap/kubestrap/internal/config"
	"github.com/kubestrap/kubestrap/internal/plan"
)

// Definition is one declarative machine entry consumed by the hypervisor
// layer.
type Definition struct {
	Name       string `yaml:"name"`
	Box        string `yaml:"box"`
	BoxVersion string `yaml:"boxVersion,omitempty"`
	Address    string `yaml:"address"`
	MemoryMB   int    `yaml:"memoryMB"`
	CPUs       int    `yaml:"cpus"`
	Group      string `yaml:"group"`
}

// manifest is the document written for the hypervisor layer.
type manifest struct {
	Machines []Definition `yaml:"machines"`
}

// DefinitionsFromPlan renders the plan's machines into hypervisor
// definitions, in plan order.
func DefinitionsFromPlan(p *plan.Plan, machine config.MachineConfig) []Definition {
	defs := make([]Definition, 0, len(p.Machines))
	for _, m := range p.Machines {
		defs = append(defs, Definition{
			Name:       m.Name,
			Box:        machine.Box,
			BoxVersion: machine.BoxVersion,
			Address:    m.Address,
			MemoryMB:   m.MemoryMB,
			CPUs:       m.CPUs,
			Group:      m.Group,
		})
	}
	return defs
}

// WriteManifest writes the machine definitions as YAML.
func WriteManifest(w io.Writer, defs []Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(manifest{Machines: defs}); err != nil {
		return fmt.Errorf("failed to encode machine manifest: %w", err)
	}
	return enc.Close()
}

// WriteManifestFile writes the machine definitions to path, creating parent
// directories as needed.
func WriteManifestFile(path string, defs []Definition) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create machine manifest: %w", err)
	}
	defer func() { _ = f.Close() }()
	return WriteManifest(f, defs)
}
