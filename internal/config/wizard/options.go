package wizard

import "github.com/charmbracelet/huh"

// PluginOption describes one installable pod-network overlay.
type PluginOption struct {
	Value       string
	Label       string
	Description string
}

// BoxOption describes a machine base image.
type BoxOption struct {
	Value       string
	Label       string
	Description string
}

// Plugins contains the selectable pod-network overlays.
var Plugins = []PluginOption{
	{Value: "calico", Label: "calico", Description: "L3 routing with network policy (default)"},
	{Value: "canal", Label: "canal", Description: "Calico policy on flannel networking"},
	{Value: "flannel", Label: "flannel", Description: "Simple VXLAN overlay"},
	{Value: "weave", Label: "weave", Description: "Mesh overlay, no fixed pod range"},
	{Value: "romana", Label: "romana", Description: "L3 routing with topology-aware addressing"},
}

// Boxes contains the supported machine base images.
var Boxes = []BoxOption{
	{Value: "centos/7", Label: "centos/7", Description: "CentOS 7 (default)"},
	{Value: "generic/centos7", Label: "generic/centos7", Description: "CentOS 7 (generic build)"},
}

// WorkerCountOptions contains common worker machine counts.
var WorkerCountOptions = []huh.Option[int]{
	huh.NewOption("1", 1),
	huh.NewOption("2", 2),
	huh.NewOption("3", 3),
	huh.NewOption("5", 5),
}

// MemoryOptions contains per-machine memory sizes in MB.
var MemoryOptions = []huh.Option[int]{
	huh.NewOption("1024 MB", 1024),
	huh.NewOption("2048 MB (Recommended)", 2048),
	huh.NewOption("4096 MB", 4096),
}

// CPUOptions contains per-machine CPU counts.
var CPUOptions = []huh.Option[int]{
	huh.NewOption("1", 1),
	huh.NewOption("2 (Recommended)", 2),
	huh.NewOption("4", 4),
}

// PluginsToOptions converts PluginOption slice to huh.Option slice.
func PluginsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Plugins))
	for i, p := range Plugins {
		opts[i] = huh.NewOption(p.Label+" - "+p.Description, p.Value)
	}
	return opts
}

// BoxesToOptions converts BoxOption slice to huh.Option slice.
func BoxesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Boxes))
	for i, b := range Boxes {
		opts[i] = huh.NewOption(b.Label+" - "+b.Description, b.Value)
	}
	return opts
}
