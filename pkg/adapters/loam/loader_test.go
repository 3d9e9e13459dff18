package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"

	"github.com/aretw0/rdrscript/internal/compiler"
	"github.com/aretw0/rdrscript/internal/testutils"
	"github.com/aretw0/rdrscript/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var library = map[string]string{
	"hello.json": `{
  "nrWindows": 1,
  "initialOps": [
    {"operation": "createPlainWindow", "title": "Hello"},
    {"operation": "load", "target": "plainwindow/0", "content": "hello.html"}
  ]
}`,
	"calculator.md": `---
nrWindows: 2
initialOps:
  - operation: createPlainWindow
namedOps:
  reset:
    operation: clear
    target: dom/0
    element: handle/1
events:
  - event: click
    source: plainwindow/0
    namedOp: QUIT
---
# Calculator

Opens a window and quits on click.`,
	"README.md": `---
title: Sample library
---
Not a sample.`,
}

func TestLoader_Contract(t *testing.T) {
	// 1. Setup Loam (strict numbers, like Open)
	dir, repo := testutils.SetupTestRepo(t, loam.WithStrict(true))
	testutils.WriteFiles(t, dir, library)

	// 2. Create Adapter
	loader := New(loam.NewTypedRepository[SampleMetadata](repo), dir)

	// 3. Run Contract
	tests.SampleLoaderContractTest(t, loader, map[string]int{
		"hello":      2,
		"calculator": 1,
	})
}

func TestLoader_GetSample_CompilesAndKeepsNotes(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t, loam.WithStrict(true))
	testutils.WriteFiles(t, dir, library)
	loader := New(loam.NewTypedRepository[SampleMetadata](repo), dir)

	doc, err := loader.GetSample(context.Background(), "calculator")
	require.NoError(t, err)
	assert.Equal(t, dir, doc.BaseDir)
	assert.Contains(t, doc.Notes, "# Calculator")

	script, err := compiler.NewParser().Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, script.NrWindows)
	assert.Len(t, script.InitialOps, 1)
	reset, ok := script.NamedOp("reset")
	require.True(t, ok)
	assert.Equal(t, "dom/0", reset.Target)
	require.Len(t, script.Events, 1)
	assert.True(t, script.Events[0].Quits())
}

func TestLoader_GetSample_RejectsNonSamples(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t, loam.WithStrict(true))
	testutils.WriteFiles(t, dir, library)
	loader := New(loam.NewTypedRepository[SampleMetadata](repo), dir)

	_, err := loader.GetSample(context.Background(), "README")
	assert.Error(t, err)
}

func TestLoader_ListSamples_DetectsCollisions(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"foo.json": `{"initialOps": [{"operation": "createPlainWindow"}]}`,
		"bar.json": `{"id": "foo", "initialOps": [{"operation": "createPlainWindow"}]}`,
	})
	loader := New(loam.NewTypedRepository[SampleMetadata](repo), dir)

	_, err := loader.ListSamples(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "hello", trimExtension("hello.json"))
	assert.Equal(t, "nested/calc", trimExtension("nested/calc.md"))
	assert.Equal(t, "plain", trimExtension("plain"))
}
