package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/rdrscript/internal/compiler"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
	"github.com/aretw0/rdrscript/pkg/variant"
)

func load(t *testing.T, js string) *domain.Script {
	t.Helper()
	v, err := variant.Parse([]byte(js))
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	script, err := compiler.NewParser().Parse(&ports.SampleDocument{Name: "fixture", Document: v})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return script
}

func TestValidateScript(t *testing.T) {
	// 1. Scenario A: Valid script
	valid := load(t, `{
		"nrWindows": 2,
		"initialOps": [
			{"operation": "createPlainWindow"},
			{"operation": "load", "target": "plainwindow/0", "content": "a.html"},
			{"operation": "createPlainWindow"},
			{"operation": "load", "target": "plainwindow/1", "inline": "<p/>"},
			{"operation": "update", "target": "dom/1", "element": "plainwindow/0", "content": "x"}
		],
		"namedOps": {
			"wipe": {"operation": "clear", "target": "dom/1", "element": "handle/7f"}
		},
		"events": [
			{"event": "click", "source": "dom/1", "namedOp": "wipe"},
			{"event": "destroy", "source": "plainwindow/0", "namedOp": "QUIT"}
		]
	}`)
	if err := ValidateScript(valid); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}

	// 2. Scenario B: Every kind of problem at once
	broken := load(t, `{
		"nrWindows": 1,
		"initialOps": [
			{"operation": "load", "target": "plainwindow/0", "content": "a.html"},
			{"operation": "createPlainWindow"},
			{"operation": "createPlainWindow"},
			{"operation": "erase", "target": "plainwindow/0", "element": "handle/1"},
			{"operation": "displace", "target": "dom/3", "element": "plainwindow/4"},
			{"operation": "frobnicate"}
		],
		"events": [
			{"event": "click", "source": "plainwindow/0", "namedOp": "ghost"}
		]
	}`)
	err := ValidateScript(broken)
	if err == nil {
		t.Fatal("Scenario B (Broken) should have failed, but got nil")
	}
	if !errors.Is(err, domain.ErrInvalidScript) {
		t.Errorf("expected ErrInvalidScript, got %v", err)
	}
	for _, want := range []string{
		"initialOps[0] load: window 0 used before it is created",
		"initialOps create 2 windows, only 1 declared",
		"initialOps[3] erase: target must be dom/<index>",
		"initialOps[4] displace: window 3 out of range",
		"initialOps[4] displace: element window 4 out of range",
		"initialOps[4] displace: content required",
		"initialOps[5] frobnicate: unknown operation",
		`events[0] click: named operation "ghost" not defined`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in:\n%v", want, err)
		}
	}
}
