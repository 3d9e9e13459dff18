package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// Describe builds a markdown summary of a sample.
func Describe(script *domain.Script, notes string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", script.Name)
	if notes != "" {
		b.WriteString(notes)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "**Windows:** %d\n\n", script.NrWindows)

	b.WriteString("## Initial operations\n\n")
	for i, op := range script.InitialOps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, operationLine(op))
	}

	if len(script.NamedOps) > 0 {
		b.WriteString("\n## Named operations\n\n")
		names := make([]string, 0, len(script.NamedOps))
		for name := range script.NamedOps {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- **%s**: %s\n", name, operationLine(script.NamedOps[name]))
		}
	}

	if len(script.Events) > 0 {
		b.WriteString("\n## Events\n\n")
		b.WriteString("| Event | Source | Element | Action |\n")
		b.WriteString("|-------|--------|---------|--------|\n")
		for _, sub := range script.Events {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", sub.Event, sub.Source, orDash(sub.Element), sub.Action)
		}
	}
	return b.String()
}

func operationLine(op domain.Operation) string {
	parts := []string{"`" + op.Name + "`"}
	if op.Target != "" {
		parts = append(parts, "on `"+op.Target+"`")
	}
	if op.Element != "" {
		parts = append(parts, "element `"+op.Element+"`")
	}
	switch {
	case op.Title != "":
		parts = append(parts, fmt.Sprintf("titled %q", op.Title))
	case op.Content != "":
		parts = append(parts, "from `"+op.Content+"`")
	case op.Inline != "":
		parts = append(parts, fmt.Sprintf("(%d bytes inline)", len(op.Inline)))
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
