package domain

// Operation is one scripted instruction. It is read-only once loaded.
type Operation struct {
	Name     string `json:"operation" mapstructure:"operation"`
	Target   string `json:"target,omitempty" mapstructure:"target"`
	Element  string `json:"element,omitempty" mapstructure:"element"`
	Property string `json:"property,omitempty" mapstructure:"property"`

	// Content is a file path for load and displace, inline text for update.
	Content string `json:"content,omitempty" mapstructure:"content"`

	// Inline, when set, is used as the document instead of reading Content.
	Inline string `json:"inline,omitempty" mapstructure:"inline"`

	// Title applies to createPlainWindow.
	Title string `json:"title,omitempty" mapstructure:"title"`
}

// Subscription routes a renderer event to an action.
type Subscription struct {
	Event   string `json:"event" mapstructure:"event"`
	Source  string `json:"source" mapstructure:"source"`
	Element string `json:"element,omitempty" mapstructure:"element"`
	Action  string `json:"namedOp" mapstructure:"namedOp"`
}

// Quits reports whether the subscription ends the session.
func (s Subscription) Quits() bool {
	return s.Action == ActionQuit
}

// Script is a loaded sample.
type Script struct {
	// Name identifies the sample (file stem or library id).
	Name string

	// BaseDir resolves relative content paths.
	BaseDir string

	NrWindows  int
	InitialOps []Operation
	NamedOps   map[string]Operation
	Events     []Subscription
}

// NamedOp looks up an operation by name.
func (s *Script) NamedOp(name string) (Operation, bool) {
	if s.NamedOps == nil {
		return Operation{}, false
	}
	op, ok := s.NamedOps[name]
	return op, ok
}
