package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/rdrscript/internal/logging"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/google/uuid"
)

// Framer reads and writes whole JSON frames on a connection.
type Framer interface {
	ReadFrame() ([]byte, error)
	WriteFrame(frame []byte) error
	Close() error
}

// inboundBuffer bounds how far the reader runs ahead of the session loop.
const inboundBuffer = 64

// Transport implements ports.Transport over any Framer.
// One goroutine decodes frames; writes are serialized.
type Transport struct {
	framer Framer
	logger *slog.Logger

	writeMu sync.Mutex

	inbound chan *domain.Message
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	err    error
	closed bool
}

// Option configures the Transport.
type Option func(*Transport)

// WithLogger reports malformed frames and connection errors.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport starts reading frames from framer.
func NewTransport(framer Framer, opts ...Option) *Transport {
	t := &Transport{
		framer:  framer,
		logger:  logging.NewNop(),
		inbound: make(chan *domain.Message, inboundBuffer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.readLoop()
	return t
}

// Send assigns a fresh request id and writes req.
func (t *Transport) Send(ctx context.Context, req *domain.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	msg := *req
	msg.Type = domain.MessageRequest
	msg.RequestID = uuid.NewString()
	if err := t.write(&msg); err != nil {
		return "", err
	}
	return msg.RequestID, nil
}

// Ping writes a keep-alive frame.
func (t *Transport) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.write(&domain.Message{Type: domain.MessagePing})
}

// Inbound delivers responses and events in arrival order.
func (t *Transport) Inbound() <-chan *domain.Message {
	return t.inbound
}

// Err returns the read error that ended the connection.
func (t *Transport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close ends the connection. Inbound is closed once the reader exits.
func (t *Transport) Close() error {
	var err error
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		close(t.done)
		err = t.framer.Close()
	})
	return err
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Transport) write(msg *domain.Message) error {
	if t.isClosed() {
		return domain.ErrTransportClosed
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", msg.Type, err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.framer.WriteFrame(frame); err != nil {
		if t.isClosed() {
			return domain.ErrTransportClosed
		}
		return err
	}
	return nil
}

func (t *Transport) readLoop() {
	defer close(t.inbound)
	for {
		frame, err := t.framer.ReadFrame()
		if err != nil {
			if !t.isClosed() {
				t.mu.Lock()
				t.err = err
				t.mu.Unlock()
				t.logger.Warn("renderer connection ended", "err", err)
			}
			return
		}
		if len(frame) == 0 {
			continue
		}

		var msg domain.Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.logger.Warn("malformed frame dropped", "err", err, "bytes", len(frame))
			continue
		}

		switch msg.Type {
		case domain.MessagePing:
			if err := t.write(&domain.Message{Type: domain.MessagePong}); err != nil && !errors.Is(err, domain.ErrTransportClosed) {
				t.logger.Warn("failed to answer ping", "err", err)
			}
			continue
		case domain.MessagePong:
			t.logger.Debug("pong received")
			continue
		}

		select {
		case t.inbound <- &msg:
		case <-t.done:
			return
		}
	}
}
