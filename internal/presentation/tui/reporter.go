package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/rdrscript/internal/runtime"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/muesli/termenv"
)

// EventReporter prints events the session did not act on.
type EventReporter struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
}

// NewEventReporter writes to out. Colors are used only when color is true.
func NewEventReporter(out io.Writer, color bool) *EventReporter {
	profile := termenv.Ascii
	if color {
		profile = termenv.ColorProfile()
	}
	return &EventReporter{out: out, profile: profile}
}

func (r *EventReporter) Unmatched(msg *domain.Message) {
	r.print("#fbbf24", "unhandled", msg, "")
}

func (r *EventReporter) Unresolved(action string, msg *domain.Message) {
	r.print("#fb7185", "undefined", msg, action)
}

func (r *EventReporter) print(color, label string, msg *domain.Message, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag := r.profile.String(fmt.Sprintf("[%s]", label)).Foreground(r.profile.Color(color)).Bold()
	fmt.Fprintf(r.out, "%s %s on %s/%s", tag, msg.Event, msg.Target, domain.FormatHandle(msg.TargetValue))
	if msg.ElementType != "" && msg.ElementType != domain.ElementVoid {
		fmt.Fprintf(r.out, " element %s:%s", msg.ElementType, msg.Element)
	}
	if action != "" {
		fmt.Fprintf(r.out, " namedOp %s", action)
	}
	fmt.Fprintf(r.out, ": %s\n", runtime.Payload(msg))
}
