package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/rdrscript/internal/compiler"
	"github.com/aretw0/rdrscript/pkg/adapters/file"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hello.json": `{"nrWindows": 1, "initialOps": [
			{"operation": "createPlainWindow"},
			{"operation": "load", "target": "plainwindow/0", "content": "hello.html"}
		]}`,
		"calc.yaml": `
nrWindows: 2
initialOps:
  - operation: createPlainWindow
    title: Calculator
  - operation: createPlainWindow
  - operation: load
    target: plainwindow/1
    inline: "<p>1 + 1</p>"
events:
  - event: click
    source: plainwindow/1
    action: QUIT
`,
		"notes.txt":  "not a sample",
		"hello.html": "<p>hello</p>",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFileLoader_Contract(t *testing.T) {
	loader := file.New(seed(t))
	tests.SampleLoaderContractTest(t, loader, map[string]int{
		"hello": 2,
		"calc":  3,
	})
}

func TestFileLoader_YAMLCompiles(t *testing.T) {
	dir := seed(t)
	doc, err := file.New(dir).GetSample(context.Background(), "calc")
	require.NoError(t, err)
	assert.Equal(t, dir, doc.BaseDir)

	script, err := compiler.NewParser().Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, script.NrWindows)
	assert.Equal(t, "Calculator", script.InitialOps[0].Title)
	assert.Equal(t, "<p>1 + 1</p>", script.InitialOps[2].Inline)
	require.Len(t, script.Events, 1)
	assert.True(t, script.Events[0].Quits())
}

func TestFileLoader_PathWithExtension(t *testing.T) {
	dir := seed(t)
	doc, err := file.New("").GetSample(context.Background(), filepath.Join(dir, "hello.json"))
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Name)
}

func TestFileLoader_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"initialOps": [`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad2.yaml"), []byte("initialOps: [\n"), 0o644))

	loader := file.New(dir)
	_, err := loader.GetSample(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidScript)
	_, err = loader.GetSample(context.Background(), "bad2")
	assert.ErrorIs(t, err, domain.ErrInvalidScript)
	_, err = loader.GetSample(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSampleNotFound)
}
