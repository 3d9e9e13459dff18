package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// errSendFailed marks errors raised by the transport while sending.
// They always end the session, even for operations triggered by events.
var errSendFailed = errors.New("send failed")

// completion handles the response to one request. resp is nil or
// cancelled is true when the request was abandoned.
type completion func(ctx context.Context, e *pendingEntry, resp *domain.Message, cancelled bool) error

// pendingEntry is one row of the pending request table.
type pendingEntry struct {
	id        string
	operation string
	cont      domain.Continuation
	// advance tells whether success moves the operation queue forward.
	// Operations issued for events run detached from the queue.
	advance bool
	sentAt  time.Time
	done    completion
}

// send transmits req and records the continuation under the assigned id.
// Nothing is recorded when the transport fails.
func (s *Session) send(ctx context.Context, req *domain.Message, cont domain.Continuation, advance bool, done completion) error {
	id, err := s.transport.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %s for %s: %w", errSendFailed, req.Operation, cont, err)
	}
	if _, dup := s.pending[id]; dup {
		return fmt.Errorf("%w: duplicate request id %q", errSendFailed, id)
	}

	s.pending[id] = &pendingEntry{
		id:        id,
		operation: req.Operation,
		cont:      cont,
		advance:   advance,
		sentAt:    s.now(),
		done:      done,
	}

	s.logger.Debug("request sent",
		"request_id", id,
		"operation", req.Operation,
		"target", req.Target,
		"window", cont.WindowIndex(),
	)
	if s.hooks.OnRequestSent != nil {
		s.hooks.OnRequestSent(ctx, &domain.RequestEvent{
			EventBase: domain.EventBase{Timestamp: s.now(), Type: domain.EventRequestSent},
			RequestID: id,
			Operation: req.Operation,
			Target:    req.Target,
			Window:    cont.WindowIndex(),
			Bytes:     req.DataSize(),
		})
	}
	return nil
}

// HandleResponse routes a response to the continuation of its request.
// A nil resp abandons the request. Unknown ids are dropped.
func (s *Session) HandleResponse(ctx context.Context, requestID string, resp *domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchResponse(ctx, requestID, resp)
}

func (s *Session) dispatchResponse(ctx context.Context, requestID string, resp *domain.Message) {
	entry, ok := s.pending[requestID]
	if !ok {
		s.logger.Warn("response for unknown request dropped", "request_id", requestID)
		return
	}
	// Removed before the continuation runs so it can never fire twice.
	delete(s.pending, requestID)

	cancelled := resp == nil || resp.Cancelled()
	retCode := 0
	if resp != nil {
		retCode = resp.RetCode
	}

	s.logger.Debug("response received",
		"request_id", requestID,
		"operation", entry.operation,
		"window", entry.cont.WindowIndex(),
		"ret_code", retCode,
		"cancelled", cancelled,
	)
	if s.hooks.OnResponse != nil {
		s.hooks.OnResponse(ctx, &domain.ResponseEvent{
			EventBase: domain.EventBase{Timestamp: s.now(), Type: domain.EventResponse},
			RequestID: requestID,
			Operation: entry.operation,
			Window:    entry.cont.WindowIndex(),
			RetCode:   retCode,
			Cancelled: cancelled,
			Latency:   s.now().Sub(entry.sentAt),
		})
	}

	if cancelled {
		s.logger.Info("request cancelled", "request_id", requestID, "operation", entry.operation)
	}
	if err := entry.done(ctx, entry, resp, cancelled); err != nil {
		s.fail(err)
	}
}

// completed runs after a successful terminal response of an operation.
func (s *Session) completed(ctx context.Context, e *pendingEntry) error {
	if !e.advance {
		return nil
	}
	return s.advance(ctx)
}
