// Package shellcmd builds commands for the external CLI tools the bootstrap
// drives over the remote execution channel (cluster-init, manifest apply,
// package manager, remote copy, routing).
//
// Commands are assembled from typed argument lists and quoted structurally,
// so configuration values can never splice into the command line as syntax.
package shellcmd

import (
	"regexp"
	"strings"
)

// Command is a single remote command, optionally piped through further
// stages and redirected to a file. The zero value is invalid; use New.
type Command struct {
	stages  [][]string
	outfile string
	sudo    bool
}

// New returns a command for the given program and arguments.
func New(name string, args ...string) Command {
	argv := append([]string{name}, args...)
	return Command{stages: [][]string{argv}}
}

// Pipe appends a pipeline stage.
func (c Command) Pipe(name string, args ...string) Command {
	argv := append([]string{name}, args...)
	c.stages = append(c.stages[:len(c.stages):len(c.stages)], argv)
	return c
}

// RedirectTo writes the final stage's stdout to path.
func (c Command) RedirectTo(path string) Command {
	c.outfile = path
	return c
}

// Sudo runs every stage with elevated privileges.
func (c Command) Sudo() Command {
	c.sudo = true
	return c
}

// String renders the command with every argument quoted.
func (c Command) String() string {
	rendered := make([]string, 0, len(c.stages))
	for _, argv := range c.stages {
		quoted := make([]string, 0, len(argv))
		if c.sudo {
			quoted = append(quoted, "sudo")
		}
		for _, arg := range argv {
			quoted = append(quoted, Quote(arg))
		}
		rendered = append(rendered, strings.Join(quoted, " "))
	}
	out := strings.Join(rendered, " | ")
	if c.outfile != "" {
		out += " > " + Quote(c.outfile)
	}
	return out
}

// plainArg matches arguments that are safe to render unquoted.
var plainArg = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote returns s as a single shell word. Values that need no quoting are
// returned verbatim; everything else is single-quoted with embedded single
// quotes escaped.
func Quote(s string) string {
	if plainArg.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
