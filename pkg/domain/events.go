package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventRequestSent EventType = "request_sent"
	EventResponse    EventType = "response"
	EventRenderer    EventType = "renderer_event"
	EventWindowState EventType = "window_state"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RequestEvent is emitted after a request was handed to the transport.
type RequestEvent struct {
	EventBase
	RequestID string `json:"request_id"`
	Operation string `json:"operation"`
	Target    string `json:"target"`
	Window    int    `json:"window"`
	Bytes     int    `json:"bytes,omitempty"`
}

// ResponseEvent is emitted when a response was matched to its request.
type ResponseEvent struct {
	EventBase
	RequestID string        `json:"request_id"`
	Operation string        `json:"operation"`
	Window    int           `json:"window"`
	RetCode   int           `json:"ret_code"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Latency   time.Duration `json:"latency"`
}

// RendererEvent is emitted for every unsolicited event from the renderer.
type RendererEvent struct {
	EventBase
	Event       string `json:"event"`
	Target      string `json:"target"`
	TargetValue uint64 `json:"target_value"`
	Action      string `json:"action,omitempty"`
	Matched     bool   `json:"matched"`
}

// WindowEvent is emitted on every transfer state change.
type WindowEvent struct {
	EventBase
	Window int           `json:"window"`
	From   TransferState `json:"from"`
	To     TransferState `json:"to"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnRequestSent func(context.Context, *RequestEvent)
	OnResponse    func(context.Context, *ResponseEvent)
	OnEvent       func(context.Context, *RendererEvent)
	OnWindowState func(context.Context, *WindowEvent)
}

// Merge returns hooks calling h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRequestSent: chain(h.OnRequestSent, other.OnRequestSent),
		OnResponse:    chain(h.OnResponse, other.OnResponse),
		OnEvent:       chain(h.OnEvent, other.OnEvent),
		OnWindowState: chain(h.OnWindowState, other.OnWindowState),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
