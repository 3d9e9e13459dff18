package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetLocator addresses a window slot, e.g. "plainwindow/0" or "dom/1".
type TargetLocator struct {
	Kind  string
	Index int
}

func (l TargetLocator) String() string {
	return fmt.Sprintf("%s/%d", l.Kind, l.Index)
}

// ParseTarget parses "<kind>/<index>".
func ParseTarget(s string) (TargetLocator, error) {
	kind, rest, ok := strings.Cut(s, "/")
	if !ok || kind == "" || rest == "" {
		return TargetLocator{}, fmt.Errorf("%w: target %q", ErrInvalidLocator, s)
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 {
		return TargetLocator{}, fmt.Errorf("%w: target %q", ErrInvalidLocator, s)
	}
	return TargetLocator{Kind: kind, Index: idx}, nil
}

// ElementLocator addresses an element, e.g. "handle/7fa0" or "plainwindow/0".
// A plainwindow value is a window index that resolves to the live window handle.
type ElementLocator struct {
	Kind  string
	Value string
}

func (l ElementLocator) String() string {
	return l.Kind + "/" + l.Value
}

// ParseElement parses "<kind>/<value>".
func ParseElement(s string) (ElementLocator, error) {
	kind, value, ok := strings.Cut(s, "/")
	if !ok || kind == "" || value == "" {
		return ElementLocator{}, fmt.Errorf("%w: element %q", ErrInvalidLocator, s)
	}
	switch kind {
	case ElementHandle:
	case ElementPlainWindow:
		if idx, err := strconv.Atoi(value); err != nil || idx < 0 {
			return ElementLocator{}, fmt.Errorf("%w: element %q", ErrInvalidLocator, s)
		}
	default:
		return ElementLocator{}, fmt.Errorf("%w: element kind %q", ErrInvalidLocator, kind)
	}
	return ElementLocator{Kind: kind, Value: value}, nil
}

// WindowIndex returns the slot a plainwindow locator refers to.
func (l ElementLocator) WindowIndex() (int, bool) {
	if l.Kind != ElementPlainWindow {
		return 0, false
	}
	idx, err := strconv.Atoi(l.Value)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// FormatHandle renders a handle the way element values carry it: lower-case hex, no prefix.
func FormatHandle(h uint64) string {
	return strconv.FormatUint(h, 16)
}
