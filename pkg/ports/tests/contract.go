package tests

import (
	"context"
	"testing"

	"github.com/aretw0/rdrscript/pkg/ports"
)

// SampleLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.SampleLoader.
// expected maps each sample name the loader holds to its number of initial operations.
func SampleLoaderContractTest(t *testing.T, loader ports.SampleLoader, expected map[string]int) {
	t.Helper()
	ctx := context.Background()

	// 1. Test GetSample (Success)
	t.Run("GetSample_Success", func(t *testing.T) {
		for name, nrOps := range expected {
			sample, err := loader.GetSample(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting sample %s: %v", name, err)
			}
			if sample.Name != name {
				t.Errorf("name mismatch: got %q, want %q", sample.Name, name)
			}
			ops, ok := sample.Document.Get("initialOps")
			if !ok {
				t.Fatalf("sample %s has no initialOps", name)
			}
			if ops.Len() != nrOps {
				t.Errorf("sample %s: got %d initial ops, want %d", name, ops.Len(), nrOps)
			}
		}
	})

	// 2. Test GetSample (NotFound)
	t.Run("GetSample_NotFound", func(t *testing.T) {
		_, err := loader.GetSample(ctx, "non-existent-sample")
		if err == nil {
			t.Error("expected error for non-existent sample, got nil")
		}
	})

	// 3. Test ListSamples
	t.Run("ListSamples", func(t *testing.T) {
		names, err := loader.ListSamples(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing samples: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d samples, got %d (%v)", len(expected), len(names), names)
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("sample %s missing from list", name)
			}
		}
	})
}
