package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// Start begins issuing the initial operations without a handshake.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.status = domain.SessionRunning
	if err := s.start(ctx); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// start issues the first initial operation.
func (s *Session) start(ctx context.Context) error {
	if len(s.script.InitialOps) == 0 {
		return domain.ErrEmptyScript
	}
	s.next = 0
	s.idle = false
	s.logger.Info("running initial operations", "count", len(s.script.InitialOps))
	return s.issueQueued(ctx)
}

// issueQueued issues the operation under the cursor. The queue only moves
// when that operation completes, so at most one queued operation is in flight.
func (s *Session) issueQueued(ctx context.Context) error {
	op := s.script.InitialOps[s.next]
	s.issued = s.next + 1
	if err := s.issue(ctx, op, true); err != nil {
		return fmt.Errorf("initialOps[%d] %s: %w", s.next, op.Name, err)
	}
	return nil
}

// advance moves past a completed operation and issues the next one.
func (s *Session) advance(ctx context.Context) error {
	if s.idle {
		return nil
	}
	s.next++
	if s.next >= len(s.script.InitialOps) {
		s.idle = true
		s.logger.Info("script complete", "operations", len(s.script.InitialOps))
		if s.cfg.ExitWhenIdle && len(s.script.Events) == 0 {
			s.finish(domain.SessionCompleted)
		}
		return nil
	}
	return s.issueQueued(ctx)
}

// Issued returns how many initial operations have been issued.
func (s *Session) Issued() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issued
}

// Done reports whether every initial operation completed.
func (s *Session) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idle
}

// issue sends the first request of op. advance is false for operations
// triggered by events, whose completion does not touch the queue.
func (s *Session) issue(ctx context.Context, op domain.Operation, advance bool) error {
	switch {
	case op.Name == domain.OpCreatePlainWindow:
		return s.createWindow(ctx, op, advance)
	case op.Name == domain.OpLoad:
		return s.loadOrWrite(ctx, op, advance)
	case domain.IsMutation(op.Name):
		return s.mutate(ctx, op, advance)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownOperation, op.Name)
	}
}
