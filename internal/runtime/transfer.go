package runtime

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/aretw0/rdrscript/pkg/chunker"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/variant"
)

// createWindow takes the next free slot and asks the workspace for a plain window.
func (s *Session) createWindow(ctx context.Context, op domain.Operation, advance bool) error {
	if s.created >= len(s.windows) {
		return fmt.Errorf("%w: %d windows declared", domain.ErrNoFreeWindow, len(s.windows))
	}
	w := s.windows[s.created]
	w.Title = op.Title
	if w.Title == "" {
		w.Title = domain.DefaultWindowTitle
	}

	req := domain.NewRequest(domain.TargetWorkspace, 0, domain.OpCreatePlainWindow).
		WithEJSON(variant.Object(
			variant.Member{Key: "name", Value: variant.String(w.Name)},
			variant.Member{Key: "title", Value: variant.String(w.Title)},
		))
	if err := s.send(ctx, req, domain.WindowContinuation(w.Index), advance, s.onWindowCreated); err != nil {
		return err
	}
	s.created++
	s.setState(ctx, w, domain.TransferWindowPending)
	return nil
}

func (s *Session) onWindowCreated(ctx context.Context, e *pendingEntry, resp *domain.Message, cancelled bool) error {
	w, err := s.slot(e)
	if err != nil {
		return err
	}
	if !s.expects(e, w, false, domain.TransferWindowPending) {
		return nil
	}
	if err := s.checkResponse(ctx, w, e, resp, cancelled); err != nil || cancelled {
		return err
	}
	w.Handle = resp.ResultValue
	s.logger.Info("window created", "window", w.Index, "handle", domain.FormatHandle(w.Handle))
	s.setState(ctx, w, domain.TransferWindowReady)
	return s.completed(ctx, e)
}

// loadOrWrite sends the window document in one load or as a chunked write.
func (s *Session) loadOrWrite(ctx context.Context, op domain.Operation, advance bool) error {
	loc, err := domain.ParseTarget(op.Target)
	if err != nil {
		return err
	}
	if loc.Kind != domain.TargetPlainWindow {
		return fmt.Errorf("%w: %s needs a %s target, got %q", domain.ErrInvalidLocator, op.Name, domain.TargetPlainWindow, op.Target)
	}
	w, err := s.window(loc.Index)
	if err != nil {
		return err
	}
	switch w.State {
	case domain.TransferLoading, domain.TransferWritePending, domain.TransferFailed:
		return fmt.Errorf("%w: window %d is %s", domain.ErrWindowNotReady, w.Index, w.State)
	}

	if w.Content == nil {
		content, err := s.content(op)
		if err != nil {
			return err
		}
		w.Content = content
	}
	w.Total = len(w.Content)
	w.Written = 0
	cont := domain.WindowContinuation(w.Index)

	if w.Total < s.cfg.ChunkSize {
		req := domain.NewRequest(domain.TargetPlainWindow, w.Handle, domain.OpLoad).WithText(string(w.Content))
		if err := s.send(ctx, req, cont, advance, s.onLoaded); err != nil {
			return err
		}
		w.Written = w.Total
		s.setState(ctx, w, domain.TransferLoading)
		return nil
	}

	chunk, err := chunker.Next(w.Content, s.cfg.ChunkSize)
	if err != nil {
		s.abortTransfer(ctx, w)
		return fmt.Errorf("window %d: %w", w.Index, err)
	}
	req := domain.NewRequest(domain.TargetPlainWindow, w.Handle, domain.OpWriteBegin).WithText(string(chunk))
	if err := s.send(ctx, req, cont, advance, s.onWritten); err != nil {
		return err
	}
	w.Written = len(chunk)
	s.setState(ctx, w, domain.TransferWritePending)
	return nil
}

// onWritten continues a chunked write: writeMore while bytes remain, then writeEnd.
func (s *Session) onWritten(ctx context.Context, e *pendingEntry, resp *domain.Message, cancelled bool) error {
	w, err := s.slot(e)
	if err != nil {
		return err
	}
	if !s.expects(e, w, true, domain.TransferWritePending) {
		return nil
	}
	if err := s.checkResponse(ctx, w, e, resp, cancelled); err != nil || cancelled {
		return err
	}
	cont := domain.WindowContinuation(w.Index)

	if w.Written < w.Total {
		chunk, err := chunker.Next(w.Remaining(), s.cfg.ChunkSize)
		if err != nil {
			s.abortTransfer(ctx, w)
			return fmt.Errorf("window %d at offset %d: %w", w.Index, w.Written, err)
		}
		req := domain.NewRequest(domain.TargetPlainWindow, w.Handle, domain.OpWriteMore).WithText(string(chunk))
		if err := s.send(ctx, req, cont, e.advance, s.onWritten); err != nil {
			return err
		}
		w.Written += len(chunk)
		return nil
	}

	req := domain.NewRequest(domain.TargetPlainWindow, w.Handle, domain.OpWriteEnd).WithText(string(w.Remaining()))
	if err := s.send(ctx, req, cont, e.advance, s.onLoaded); err != nil {
		return err
	}
	w.Written = w.Total
	return nil
}

// onLoaded completes a load or a writeEnd.
func (s *Session) onLoaded(ctx context.Context, e *pendingEntry, resp *domain.Message, cancelled bool) error {
	w, err := s.slot(e)
	if err != nil {
		return err
	}
	if !s.expects(e, w, true, domain.TransferLoading, domain.TransferWritePending) {
		return nil
	}
	if err := s.checkResponse(ctx, w, e, resp, cancelled); err != nil || cancelled {
		return err
	}
	w.DOMHandle = resp.ResultValue
	w.Written = w.Total
	w.Release()
	s.logger.Info("document loaded",
		"window", w.Index,
		"dom", domain.FormatHandle(w.DOMHandle),
		"bytes", w.Total,
	)
	s.setState(ctx, w, domain.TransferWritten)
	return s.completed(ctx, e)
}

// mutate sends displace, update, erase or clear to the DOM of a loaded window.
func (s *Session) mutate(ctx context.Context, op domain.Operation, advance bool) error {
	loc, err := domain.ParseTarget(op.Target)
	if err != nil {
		return err
	}
	if loc.Kind != domain.TargetDOM {
		return fmt.Errorf("%w: %s needs a %s target, got %q", domain.ErrInvalidLocator, op.Name, domain.TargetDOM, op.Target)
	}
	w, err := s.window(loc.Index)
	if err != nil {
		return err
	}
	if w.State != domain.TransferWritten {
		return fmt.Errorf("%w: window %d is %s", domain.ErrWindowNotReady, w.Index, w.State)
	}
	if op.Element == "" {
		return fmt.Errorf("%w: %s needs an element", domain.ErrInvalidLocator, op.Name)
	}
	elementType, element, err := s.resolveElement(op.Element)
	if err != nil {
		return err
	}

	req := domain.NewRequest(domain.TargetDOM, w.DOMHandle, op.Name).WithElement(elementType, element)
	req.Property = op.Property

	switch op.Name {
	case domain.OpUpdate:
		text := op.Inline
		if text == "" {
			text = op.Content
		}
		if text == "" {
			return fmt.Errorf("%w: %s needs content", domain.ErrContentUnavailable, op.Name)
		}
		req.WithText(text)
	case domain.OpDisplace:
		content, err := s.content(op)
		if err != nil {
			return err
		}
		req.WithText(string(content))
	}

	return s.send(ctx, req, domain.WindowContinuation(w.Index), advance, s.onMutated)
}

func (s *Session) onMutated(ctx context.Context, e *pendingEntry, resp *domain.Message, cancelled bool) error {
	w, err := s.slot(e)
	if err != nil {
		return err
	}
	if !s.expects(e, w, true) {
		return nil
	}
	if err := s.checkResponse(ctx, w, e, resp, cancelled); err != nil || cancelled {
		return err
	}
	return s.completed(ctx, e)
}

// slot returns the window addressed by a window continuation.
func (s *Session) slot(e *pendingEntry) (*domain.Window, error) {
	if e.cont.Kind != domain.ContWindow || e.cont.Window < 0 || e.cont.Window >= len(s.windows) {
		return nil, fmt.Errorf("%w: %s answered for %s", domain.ErrContinuationMismatch, e.operation, e.cont)
	}
	return s.windows[e.cont.Window], nil
}

// expects reports whether w still waits for the response to e. A window
// destroyed or restarted meanwhile no longer does, and the response is dropped.
// With no states given, any state is accepted.
func (s *Session) expects(e *pendingEntry, w *domain.Window, created bool, states ...domain.TransferState) bool {
	if (!created || w.Created()) && (len(states) == 0 || slices.Contains(states, w.State)) {
		return true
	}
	s.logger.Warn("stale response dropped",
		"request_id", e.id,
		"operation", e.operation,
		"window", w.Index,
		"state", w.State,
	)
	return false
}

// checkResponse fails the slot on a non-success response.
// A cancelled request leaves the slot failed but the session running.
func (s *Session) checkResponse(ctx context.Context, w *domain.Window, e *pendingEntry, resp *domain.Message, cancelled bool) error {
	if cancelled {
		s.logger.Warn("transfer abandoned by renderer", "window", w.Index, "operation", e.operation)
		s.abortTransfer(ctx, w)
		return nil
	}
	if !resp.OK() {
		s.abortTransfer(ctx, w)
		return &domain.ResponseError{Operation: e.operation, Window: w.Index, RetCode: resp.RetCode}
	}
	return nil
}

func (s *Session) abortTransfer(ctx context.Context, w *domain.Window) {
	w.Release()
	s.setState(ctx, w, domain.TransferFailed)
}

// content returns the inline document of op, or reads the file it names.
func (s *Session) content(op domain.Operation) ([]byte, error) {
	if op.Inline != "" {
		return []byte(op.Inline), nil
	}
	if op.Content == "" {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrContentUnavailable, op.Name)
	}
	path := op.Content
	if !filepath.IsAbs(path) && s.script.BaseDir != "" {
		path = filepath.Join(s.script.BaseDir, path)
	}
	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrContentUnavailable, err)
	}
	return data, nil
}

// resolveElement turns an element locator into the (type, value) pair sent on the wire.
func (s *Session) resolveElement(raw string) (string, string, error) {
	loc, err := domain.ParseElement(raw)
	if err != nil {
		return "", "", err
	}
	idx, ok := loc.WindowIndex()
	if !ok {
		return loc.Kind, loc.Value, nil
	}
	w, err := s.window(idx)
	if err != nil {
		return "", "", err
	}
	return domain.ElementHandle, domain.FormatHandle(w.Handle), nil
}

func (s *Session) setState(ctx context.Context, w *domain.Window, to domain.TransferState) {
	from := w.State
	if from == to {
		return
	}
	w.State = to
	s.logger.Debug("window state changed", "window", w.Index, "from", from, "to", to)
	if s.hooks.OnWindowState != nil {
		s.hooks.OnWindowState(ctx, &domain.WindowEvent{
			EventBase: domain.EventBase{Timestamp: s.now(), Type: domain.EventWindowState},
			Window:    w.Index,
			From:      from,
			To:        to,
		})
	}
}
