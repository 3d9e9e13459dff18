package domain

import "fmt"

// ContinuationKind tags what a pending request belongs to.
type ContinuationKind uint8

const (
	ContSession ContinuationKind = iota
	ContWindow
)

// Continuation is the context attached to an outstanding request:
// either a window slot or the session itself.
type Continuation struct {
	Kind   ContinuationKind
	Window int
}

// SessionContinuation addresses session-level requests.
func SessionContinuation() Continuation {
	return Continuation{Kind: ContSession, Window: -1}
}

// WindowContinuation addresses requests issued on behalf of window i.
func WindowContinuation(i int) Continuation {
	return Continuation{Kind: ContWindow, Window: i}
}

// WindowIndex returns the window slot, or -1 for session continuations.
func (c Continuation) WindowIndex() int {
	if c.Kind != ContWindow {
		return -1
	}
	return c.Window
}

func (c Continuation) String() string {
	if c.Kind == ContWindow {
		return fmt.Sprintf("window/%d", c.Window)
	}
	return "session"
}
