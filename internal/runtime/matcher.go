package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// handleEvent runs the first subscription matching msg.
func (s *Session) handleEvent(ctx context.Context, msg *domain.Message) {
	var matched *domain.Subscription
	for i := range s.script.Events {
		if s.matches(s.script.Events[i], msg) {
			matched = &s.script.Events[i]
			break
		}
	}

	if s.hooks.OnEvent != nil {
		evt := &domain.RendererEvent{
			EventBase:   domain.EventBase{Timestamp: s.now(), Type: domain.EventRenderer},
			Event:       msg.Event,
			Target:      msg.Target,
			TargetValue: msg.TargetValue,
			Matched:     matched != nil,
		}
		if matched != nil {
			evt.Action = matched.Action
		}
		s.hooks.OnEvent(ctx, evt)
	}

	if matched != nil {
		s.act(ctx, *matched, msg)
	} else {
		s.reporter.Unmatched(msg)
	}
	s.windowDestroyed(ctx, msg)
}

func (s *Session) matches(sub domain.Subscription, msg *domain.Message) bool {
	if sub.Event != msg.Event {
		return false
	}
	kind, value, ok := s.resolveSource(sub.Source)
	if !ok || kind != msg.Target || value != msg.TargetValue {
		return false
	}
	if sub.Element == "" {
		return true
	}
	elementType, element, err := s.resolveElement(sub.Element)
	if err != nil {
		return false
	}
	return elementType == msg.ElementType && element == msg.Element
}

// resolveSource maps a source locator to the target kind and value events carry.
// Window sources only resolve once their handle is known.
func (s *Session) resolveSource(raw string) (string, uint64, bool) {
	loc, err := domain.ParseTarget(raw)
	if err != nil {
		return "", 0, false
	}
	switch loc.Kind {
	case domain.TargetPlainWindow, domain.TargetDOM:
		if loc.Index >= len(s.windows) {
			return "", 0, false
		}
		w := s.windows[loc.Index]
		h := w.Handle
		if loc.Kind == domain.TargetDOM {
			h = w.DOMHandle
		}
		return loc.Kind, h, h != 0
	default:
		return loc.Kind, uint64(loc.Index), true
	}
}

func (s *Session) act(ctx context.Context, sub domain.Subscription, msg *domain.Message) {
	if sub.Quits() {
		s.logger.Info("quit requested by event", "event", msg.Event, "target", msg.Target)
		s.finish(domain.SessionQuit)
		return
	}

	op, ok := s.script.NamedOp(sub.Action)
	if !ok {
		s.reporter.Unresolved(sub.Action, msg)
		return
	}
	s.logger.Debug("running named operation", "event", msg.Event, "action", sub.Action, "operation", op.Name)
	if err := s.issue(ctx, op, false); err != nil {
		if errors.Is(err, errSendFailed) {
			s.fail(err)
			return
		}
		s.logger.Warn("named operation not issued", "action", sub.Action, "operation", op.Name, "err", err)
	}
}

// windowDestroyed clears the slot of a plain window the renderer destroyed.
// Slots are never reused, so the run ends once no window is left.
func (s *Session) windowDestroyed(ctx context.Context, msg *domain.Message) {
	if msg.Event != domain.EventDestroy || msg.Target != domain.TargetPlainWindow || msg.TargetValue == 0 {
		return
	}
	var destroyed *domain.Window
	for _, w := range s.windows {
		if w.Handle == msg.TargetValue {
			destroyed = w
			break
		}
	}
	if destroyed == nil {
		return
	}
	s.logger.Info("window destroyed", "window", destroyed.Index, "handle", domain.FormatHandle(destroyed.Handle))
	for id, e := range s.pending {
		if e.cont.Kind == domain.ContWindow && e.cont.Window == destroyed.Index {
			s.logger.Debug("request dropped with its window", "request_id", id, "operation", e.operation, "window", destroyed.Index)
			delete(s.pending, id)
		}
	}
	from := destroyed.State
	destroyed.Reset()
	destroyed.State = from
	s.setState(ctx, destroyed, domain.TransferEmpty)

	for _, w := range s.windows {
		if w.Created() || w.State == domain.TransferWindowPending {
			return
		}
	}
	if s.running {
		s.logger.Info("no window alive")
		s.finish(domain.SessionQuit)
	}
}
