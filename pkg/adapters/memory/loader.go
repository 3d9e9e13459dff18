package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
	"github.com/aretw0/rdrscript/pkg/variant"
)

// Loader implements ports.SampleLoader using an in-memory map.
type Loader struct {
	samples map[string]variant.Value
	baseDir string
}

// NewLoader creates a new Loader from raw JSON documents keyed by sample name.
func NewLoader(data map[string]string) (*Loader, error) {
	samples := make(map[string]variant.Value, len(data))
	for name, raw := range data {
		v, err := variant.Parse([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse sample %s: %w", name, err)
		}
		samples[name] = v
	}
	return &Loader{samples: samples}, nil
}

// NewFromValues creates a new Loader from already decoded documents.
func NewFromValues(samples map[string]variant.Value) *Loader {
	copied := make(map[string]variant.Value, len(samples))
	for k, v := range samples {
		copied[k] = v
	}
	return &Loader{samples: copied}
}

// WithBaseDir sets the directory content paths of every sample resolve against.
func (l *Loader) WithBaseDir(dir string) *Loader {
	l.baseDir = dir
	return l
}

// GetSample returns the sample stored under name.
func (l *Loader) GetSample(_ context.Context, name string) (*ports.SampleDocument, error) {
	doc, ok := l.samples[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSampleNotFound, name)
	}
	return &ports.SampleDocument{Name: name, BaseDir: l.baseDir, Document: doc}, nil
}

// ListSamples returns all sample names.
func (l *Loader) ListSamples(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.samples))
	for k := range l.samples {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
