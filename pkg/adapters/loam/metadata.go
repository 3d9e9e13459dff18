package loam

import (
	"github.com/aretw0/rdrscript/pkg/variant"
)

// SampleMetadata is a sample as stored in a Loam library: the keys of a JSON
// document, or the frontmatter of a Markdown one.
// Script sections stay untyped so the compiler sees them exactly as written.
type SampleMetadata struct {
	ID          string `json:"id" mapstructure:"id"`
	Description string `json:"description" mapstructure:"description"`

	NrWindows  any `json:"nrWindows" mapstructure:"nrWindows"`
	InitialOps any `json:"initialOps" mapstructure:"initialOps"`
	NamedOps   any `json:"namedOps" mapstructure:"namedOps"`
	Events     any `json:"events" mapstructure:"events"`
}

// IsSample reports whether the document defines a script.
func (m SampleMetadata) IsSample() bool {
	return m.InitialOps != nil
}

// Document rebuilds the sample document, leaving out absent sections.
func (m SampleMetadata) Document() (variant.Value, error) {
	var members []variant.Member
	for _, f := range []struct {
		key string
		val any
	}{
		{"nrWindows", m.NrWindows},
		{"initialOps", m.InitialOps},
		{"namedOps", m.NamedOps},
		{"events", m.Events},
	} {
		if f.val == nil {
			continue
		}
		v, err := variant.FromAny(f.val)
		if err != nil {
			return variant.Null(), err
		}
		members = append(members, variant.Member{Key: f.key, Value: v})
	}
	return variant.Object(members...), nil
}
