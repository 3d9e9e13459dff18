package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/variant"
)

// Run drives the session until the script quits, fails, or ctx is cancelled.
// It returns nil on a clean end and ctx.Err() on cancellation.
func (s *Session) Run(ctx context.Context) error {
	if err := s.begin(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	inbound := s.transport.Inbound()
	lastMinute := s.now().Format("15:04")

	for s.Running() {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()

		case msg, ok := <-inbound:
			if !ok {
				s.mu.Lock()
				s.fail(s.connectionLost())
				s.mu.Unlock()
				break
			}
			s.Dispatch(ctx, msg)

		case <-ticker.C:
			lastMinute = s.tick(ctx, lastMinute)
		}
	}
	return s.Err()
}

// begin marks the session running and sends the handshake, or the first
// operation when the handshake is disabled.
func (s *Session) begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = true
	s.status = domain.SessionRunning

	var err error
	if s.cfg.Handshake {
		err = s.handshake(ctx)
	} else {
		err = s.start(ctx)
	}
	if err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// Dispatch processes one inbound message.
func (s *Session) Dispatch(ctx context.Context, msg *domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case domain.MessageResponse:
		s.dispatchResponse(ctx, msg.RequestID, msg)
	case domain.MessageEvent:
		s.handleEvent(ctx, msg)
	case domain.MessagePing, domain.MessagePong:
		s.logger.Debug("keep-alive", "type", msg.Type)
	default:
		s.logger.Warn("unexpected message dropped", "type", msg.Type, "request_id", msg.RequestID)
	}
}

// tick runs the timer work: a keep-alive ping whenever the wall-clock
// minute changes, and the liveness check of the transport.
func (s *Session) tick(ctx context.Context, lastMinute string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if minute := s.now().Format("15:04"); minute != lastMinute {
		lastMinute = minute
		if err := s.transport.Ping(ctx); err != nil {
			s.fail(fmt.Errorf("%w: ping: %w", domain.ErrConnectionLost, err))
			return lastMinute
		}
		s.logger.Debug("ping sent", "minute", minute)
	}
	if s.transport.Err() != nil {
		s.fail(s.connectionLost())
	}
	return lastMinute
}

func (s *Session) connectionLost() error {
	if err := s.transport.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectionLost, err)
	}
	return domain.ErrConnectionLost
}

// handshake announces the client and starts the queue once the renderer accepts.
func (s *Session) handshake(ctx context.Context) error {
	req := domain.NewRequest(domain.TargetSession, 0, domain.OpStartSession).
		WithEJSON(variant.Object(
			variant.Member{Key: "protocolName", Value: variant.String(domain.ProtocolName)},
			variant.Member{Key: "appName", Value: variant.String(s.cfg.AppName)},
			variant.Member{Key: "runnerName", Value: variant.String(s.cfg.RunnerName)},
		))
	return s.send(ctx, req, domain.SessionContinuation(), false, s.onSessionStarted)
}

func (s *Session) onSessionStarted(ctx context.Context, e *pendingEntry, resp *domain.Message, cancelled bool) error {
	if cancelled {
		return &domain.ResponseError{Operation: e.operation, Window: -1}
	}
	if !resp.OK() {
		return &domain.ResponseError{Operation: e.operation, Window: -1, RetCode: resp.RetCode}
	}
	s.logger.Info("session started", "app", s.cfg.AppName, "runner", s.cfg.RunnerName)
	return s.start(ctx)
}
