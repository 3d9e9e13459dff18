package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/rdrscript/pkg/ports"
)

// Loader adapts a Loam library to the ports.SampleLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[SampleMetadata]

	// root is the library directory, used to resolve content paths.
	root string
}

// New creates a new Loam adapter over a library rooted at root.
func New(repo *loam.TypedRepository[SampleMetadata], root string) *Loader {
	return &Loader{
		Repo: repo,
		root: root,
	}
}

// Open initializes a read-only Loam library at path.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode returns json.Number for every numeric field, whatever the
	// file format. The client never writes to the library.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[SampleMetadata](repo), absPath), nil
}

// GetSample retrieves a sample by name. Loam resolves "hello" to hello.json or hello.md.
func (l *Loader) GetSample(ctx context.Context, name string) (*ports.SampleDocument, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	if !doc.Data.IsSample() {
		return nil, fmt.Errorf("document %s is not a sample: no initialOps", doc.ID)
	}

	value, err := doc.Data.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to convert sample %s: %w", name, err)
	}

	notes := strings.TrimSpace(doc.Content)
	if notes == "" {
		notes = doc.Data.Description
	}
	return &ports.SampleDocument{
		Name:     sampleID(doc.ID, doc.Data),
		BaseDir:  filepath.Join(l.root, filepath.Dir(filepath.FromSlash(doc.ID))),
		Document: value,
		Notes:    notes,
	}, nil
}

// ListSamples lists the samples of the library. Documents without
// initialOps (READMEs, fragments) are skipped.
func (l *Loader) ListSamples(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		if !doc.Data.IsSample() {
			continue
		}
		id := sampleID(doc.ID, doc.Data)

		// Collision Detection
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: sample '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// sampleID prefers the declared id over the file name, without extension.
func sampleID(docID string, meta SampleMetadata) string {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	return trimExtension(rawID)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
