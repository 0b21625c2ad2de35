// Package ui renders operator-facing output for the bootstrap run.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/kubestrap/kubestrap/internal/driver"
	"github.com/kubestrap/kubestrap/internal/plan"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// IsInteractiveTTY reports whether stdout is a terminal worth styling.
func IsInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// RenderSummary produces the per-machine outcome table and the closing
// summary line. With styled false the output is plain text, suitable for
// pipes and CI logs.
func RenderSummary(clusterName string, result *driver.Result, styled bool) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(render(styled, titleStyle, fmt.Sprintf("  kubestrap: %s", clusterName)))
	b.WriteString("\n")
	b.WriteString(render(styled, dimStyle, "  "+strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(render(styled, sectionStyle, "  Machines"))
	b.WriteString("\n")
	b.WriteString(render(styled, dimStyle, "  "+strings.Repeat("─", 56)))
	b.WriteString("\n")
	b.WriteString(render(styled, dimStyle, fmt.Sprintf("  %-24s %-12s %-16s %s", "Name", "Role", "Address", "Status")))
	b.WriteString("\n")

	for _, s := range result.States {
		fmt.Fprintf(&b, "  %-24s %-12s %-16s %s\n",
			s.Spec.Name, roleLabel(s.Spec.Role), s.Spec.Address, statusLabel(s, styled))
	}

	b.WriteString(render(styled, dimStyle, "  "+strings.Repeat("─", 56)))
	b.WriteString("\n")

	summary := result.Summary()
	if len(result.Failed()) == 0 {
		b.WriteString("  " + render(styled, okStyle, summary))
	} else {
		b.WriteString("  " + render(styled, failStyle, summary))
	}
	b.WriteString("\n")

	for _, s := range result.Failed() {
		b.WriteString(render(styled, dimStyle, fmt.Sprintf("    %s: %v", s.Spec.Name, s.Err)))
		b.WriteString("\n")
	}

	return b.String()
}

func statusLabel(s driver.MachineState, styled bool) string {
	switch s.Status {
	case driver.StatusDone:
		return render(styled, okStyle, string(s.Status))
	case driver.StatusFailed:
		return render(styled, failStyle, string(s.Status))
	default:
		return string(s.Status)
	}
}

func roleLabel(r plan.Role) string {
	if r == plan.RoleCoordinator {
		return "coordinator"
	}
	return "worker"
}

func render(styled bool, style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}
