package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// ValidateScript checks a loaded script for problems the session would only
// hit at run time. Every problem found is listed in the returned error.
func ValidateScript(script *domain.Script) error {
	v := &checker{script: script}

	created := 0
	for i, op := range script.InitialOps {
		where := fmt.Sprintf("initialOps[%d] %s", i, op.Name)
		v.operation(where, op, created)
		if op.Name == domain.OpCreatePlainWindow {
			created++
		}
	}
	if created > script.NrWindows {
		v.addf("initialOps create %d windows, only %d declared", created, script.NrWindows)
	}

	for _, name := range sortedNames(script.NamedOps) {
		// Named operations run on events, when every window may exist.
		v.operation("namedOps["+name+"]", script.NamedOps[name], script.NrWindows)
	}

	for i, sub := range script.Events {
		where := fmt.Sprintf("events[%d] %s", i, sub.Event)
		if loc, err := domain.ParseTarget(sub.Source); err != nil {
			v.addf("%s: %v", where, err)
		} else {
			v.windowIndex(where, loc)
		}
		if sub.Element != "" {
			v.element(where, sub.Element)
		}
		if !sub.Quits() {
			if _, ok := script.NamedOp(sub.Action); !ok {
				v.addf("%s: named operation %q not defined", where, sub.Action)
			}
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInvalidScript, len(v.errors), strings.Join(v.errors, "\n- "))
	}
	return nil
}

type checker struct {
	script *domain.Script
	errors []string
}

func (v *checker) addf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// operation checks op. created is the number of windows that exist when it runs.
func (v *checker) operation(where string, op domain.Operation, created int) {
	var wantKind string
	switch {
	case op.Name == domain.OpCreatePlainWindow:
		return
	case op.Name == domain.OpLoad:
		wantKind = domain.TargetPlainWindow
	case domain.IsMutation(op.Name):
		wantKind = domain.TargetDOM
	default:
		v.addf("%s: unknown operation", where)
		return
	}

	loc, err := domain.ParseTarget(op.Target)
	if err != nil {
		v.addf("%s: %v", where, err)
		return
	}
	if loc.Kind != wantKind {
		v.addf("%s: target must be %s/<index>, got %q", where, wantKind, op.Target)
	}
	if v.windowIndex(where, loc) && loc.Index >= created {
		v.addf("%s: window %d used before it is created", where, loc.Index)
	}

	if domain.IsMutation(op.Name) {
		if op.Element == "" {
			v.addf("%s: element required", where)
		} else {
			v.element(where, op.Element)
		}
	}

	switch op.Name {
	case domain.OpLoad, domain.OpDisplace, domain.OpUpdate:
		if op.Content == "" && op.Inline == "" {
			v.addf("%s: content required", where)
		}
	}
}

func (v *checker) windowIndex(where string, loc domain.TargetLocator) bool {
	switch loc.Kind {
	case domain.TargetPlainWindow, domain.TargetDOM:
	default:
		return false
	}
	if loc.Index >= v.script.NrWindows {
		v.addf("%s: window %d out of range (%d declared)", where, loc.Index, v.script.NrWindows)
		return false
	}
	return true
}

func (v *checker) element(where, raw string) {
	loc, err := domain.ParseElement(raw)
	if err != nil {
		v.addf("%s: %v", where, err)
		return
	}
	if idx, ok := loc.WindowIndex(); ok && idx >= v.script.NrWindows {
		v.addf("%s: element window %d out of range (%d declared)", where, idx, v.script.NrWindows)
	}
}

func sortedNames(ops map[string]domain.Operation) []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
