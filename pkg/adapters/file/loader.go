package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
	"github.com/aretw0/rdrscript/pkg/variant"
	"gopkg.in/yaml.v3"
)

// Extensions lists the sample formats, in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Loader implements ports.SampleLoader over a directory of sample files.
type Loader struct {
	Dir string
}

// New creates a Loader reading samples from dir.
// If dir is empty, it defaults to the working directory.
func New(dir string) *Loader {
	if dir == "" {
		dir = "."
	}
	return &Loader{Dir: dir}
}

// GetSample reads <name>.json, <name>.yaml or <name>.yml from the directory.
// A name that already carries one of these extensions is read as a path.
func (l *Loader) GetSample(_ context.Context, name string) (*ports.SampleDocument, error) {
	if hasSampleExt(name) {
		path := name
		if !filepath.IsAbs(path) {
			if _, err := os.Stat(path); err != nil {
				path = filepath.Join(l.Dir, name)
			}
		}
		return ReadSample(path)
	}

	for _, ext := range Extensions {
		path := filepath.Join(l.Dir, name+ext)
		doc, err := ReadSample(path)
		if errors.Is(err, domain.ErrSampleNotFound) {
			continue
		}
		return doc, err
	}
	return nil, fmt.Errorf("%w: %s in %s", domain.ErrSampleNotFound, name, l.Dir)
}

// ListSamples returns the sample names found in the directory.
func (l *Loader) ListSamples(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample directory: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasSampleExt(e.Name()) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadSample reads and decodes one sample file, choosing the format by extension.
func ReadSample(path string) (*ports.SampleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSampleNotFound, path)
		}
		return nil, fmt.Errorf("failed to read sample: %w", err)
	}

	var doc variant.Value
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		doc, err = variant.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidScript, path, err)
		}
	} else {
		// Default to YAML
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidScript, path, err)
		}
		doc, err = variant.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidScript, path, err)
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return &ports.SampleDocument{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		BaseDir:  filepath.Dir(absPath),
		Document: doc,
	}, nil
}

func hasSampleExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
