package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/rdrscript/internal/presentation/tui"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventReporter_Payloads(t *testing.T) {
	var buf bytes.Buffer
	r := tui.NewEventReporter(&buf, false)

	r.Unmatched(&domain.Message{
		Event: "change", Target: domain.TargetDOM, TargetValue: 0x2002,
		ElementType: domain.ElementHandle, Element: "beef",
		DataType: domain.DataText, Data: variant.String("typed"),
	})
	r.Unmatched(&domain.Message{
		Event: "click", Target: domain.TargetPlainWindow, TargetValue: 0x1001,
		DataType: domain.DataEJSON, Data: variant.Object(variant.Member{Key: "x", Value: variant.Int(3)}),
	})
	r.Unresolved("OPEN", &domain.Message{Event: "click", Target: domain.TargetPlainWindow, DataType: domain.DataVoid})

	out := buf.String()
	assert.Contains(t, out, "[unhandled] change on dom/")
	assert.Contains(t, out, "element handle:beef: typed")
	assert.Contains(t, out, `{"x":3}`)
	assert.Contains(t, out, "[undefined] click")
	assert.Contains(t, out, "namedOp OPEN: VOID")
}

func TestDescribe(t *testing.T) {
	script := &domain.Script{
		Name:      "calculator",
		NrWindows: 1,
		InitialOps: []domain.Operation{
			{Name: domain.OpCreatePlainWindow, Title: "Calc"},
			{Name: domain.OpLoad, Target: "plainwindow/0", Content: "calc.html"},
		},
		NamedOps: map[string]domain.Operation{
			"SHOW": {Name: domain.OpUpdate, Target: "dom/0", Element: "handle/1a2b", Inline: "42"},
		},
		Events: []domain.Subscription{
			{Event: "click", Source: "dom/0", Element: "handle/1a2c", Action: "SHOW"},
			{Event: "destroy", Source: "plainwindow/0", Action: domain.ActionQuit},
		},
	}

	md := tui.Describe(script, "A tiny calculator.")

	assert.Contains(t, md, "# calculator")
	assert.Contains(t, md, "A tiny calculator.")
	assert.Contains(t, md, "1. `createPlainWindow` titled \"Calc\"")
	assert.Contains(t, md, "2. `load` on `plainwindow/0` from `calc.html`")
	assert.Contains(t, md, "- **SHOW**: `update` on `dom/0` element `handle/1a2b` (2 bytes inline)")
	assert.Contains(t, md, "| destroy | plainwindow/0 | - | QUIT |")

	out, err := tui.NewRenderer(true)(md)
	require.NoError(t, err)
	assert.Contains(t, out, "calculator")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
