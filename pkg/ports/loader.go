package ports

import (
	"context"

	"github.com/aretw0/rdrscript/pkg/variant"
)

// SampleDocument is a sample as read from storage, before compilation.
type SampleDocument struct {
	Name string

	// BaseDir resolves content paths referenced by the sample.
	BaseDir string

	Document variant.Value

	// Notes is free text stored alongside the sample, e.g. a Markdown body.
	Notes string
}

// SampleLoader defines how samples are retrieved.
// This allows the storage layer (files, Loam, memory) to be decoupled.
type SampleLoader interface {
	// GetSample retrieves a sample document by name.
	GetSample(ctx context.Context, name string) (*SampleDocument, error)

	// ListSamples returns the names of all samples the loader can serve.
	ListSamples(ctx context.Context) ([]string, error)
}
