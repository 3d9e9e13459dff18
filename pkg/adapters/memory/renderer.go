package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// FirstHandle is the first handle the loopback renderer assigns.
const FirstHandle uint64 = 0x1001

// Responder builds the reply to a request. Returning nil sends nothing.
type Responder func(req *domain.Message) *domain.Message

// Renderer is an in-process renderer implementing ports.Transport.
//
// By default it answers every request with StatusOK, assigning sequential
// handles starting at FirstHandle to the operations that create something
// (windows and documents). It also records every frame the client sent,
// which makes it the instrumented transport of the session tests.
//
// Renderer also implements ports.Peer so tests can script the renderer side.
type Renderer struct {
	mu   sync.Mutex
	cond *sync.Cond

	respond Responder
	sendErr error

	nextID     int
	nextHandle uint64

	// frames sent by the client, read back by Receive
	frames []*domain.Message
	read   int
	notify chan struct{}

	// frames waiting to be delivered on inbound
	queue   []*domain.Message
	inbound chan *domain.Message
	done    chan struct{}

	closed bool
	err    error
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithResponder replaces the default auto-reply.
func WithResponder(fn Responder) Option {
	return func(r *Renderer) {
		r.respond = fn
	}
}

// WithManualReplies disables auto-replies; tests answer with Respond or Deliver.
func WithManualReplies() Option {
	return func(r *Renderer) {
		r.respond = nil
	}
}

// NewRenderer starts a loopback renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		nextHandle: FirstHandle,
		notify:     make(chan struct{}),
		inbound:    make(chan *domain.Message),
		done:       make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)
	r.respond = r.AutoReply
	for _, opt := range opts {
		opt(r)
	}
	go r.pump()
	return r
}

// AutoReply answers req with StatusOK. createPlainWindow, load and writeEnd
// receive a fresh handle as result value.
func (r *Renderer) AutoReply(req *domain.Message) *domain.Message {
	resp := &domain.Message{
		Type:      domain.MessageResponse,
		RequestID: req.RequestID,
		State:     domain.ResponseAnswered,
		RetCode:   domain.StatusOK,
		DataType:  domain.DataVoid,
	}
	switch req.Operation {
	case domain.OpCreatePlainWindow, domain.OpLoad, domain.OpWriteEnd:
		resp.ResultValue = r.nextHandle
		r.nextHandle++
	}
	return resp
}

// Send records req, assigns it an id and queues the reply.
func (r *Renderer) Send(_ context.Context, req *domain.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", domain.ErrTransportClosed
	}
	if r.sendErr != nil {
		return "", r.sendErr
	}

	r.nextID++
	sent := *req
	sent.Type = domain.MessageRequest
	sent.RequestID = "req-" + strconv.Itoa(r.nextID)
	r.record(&sent)

	if r.respond != nil {
		if resp := r.respond(&sent); resp != nil {
			r.enqueue(resp)
		}
	}
	return sent.RequestID, nil
}

// Ping records a keep-alive frame and answers it with a pong.
func (r *Renderer) Ping(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrTransportClosed
	}
	r.record(&domain.Message{Type: domain.MessagePing})
	if r.respond != nil {
		r.enqueue(&domain.Message{Type: domain.MessagePong})
	}
	return nil
}

// Inbound delivers responses and events to the client.
func (r *Renderer) Inbound() <-chan *domain.Message {
	return r.inbound
}

// Err returns the error set by Disconnect.
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close ends the connection. Undelivered frames are dropped.
func (r *Renderer) Close() error {
	r.shutdown(nil)
	return nil
}

// Disconnect simulates the renderer dropping the connection with err.
func (r *Renderer) Disconnect(err error) {
	r.shutdown(err)
}

// FailSends makes every following Send return err.
func (r *Renderer) FailSends(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendErr = err
}

// Receive returns the next frame the client sent.
func (r *Renderer) Receive(ctx context.Context) (*domain.Message, error) {
	for {
		r.mu.Lock()
		if r.read < len(r.frames) {
			msg := r.frames[r.read]
			r.read++
			r.mu.Unlock()
			return msg, nil
		}
		notify := r.notify
		r.mu.Unlock()

		select {
		case <-notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Deliver sends a frame to the client. Pings are answered with a pong
// instead of being delivered.
func (r *Renderer) Deliver(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrTransportClosed
	}
	if msg.Type == domain.MessagePing {
		r.record(&domain.Message{Type: domain.MessagePong})
		return nil
	}
	r.enqueue(msg)
	return nil
}

// Respond answers the request with the given id.
func (r *Renderer) Respond(requestID string, retCode int, result uint64) error {
	return r.Deliver(context.Background(), &domain.Message{
		Type:        domain.MessageResponse,
		RequestID:   requestID,
		State:       domain.ResponseAnswered,
		RetCode:     retCode,
		ResultValue: result,
		DataType:    domain.DataVoid,
	})
}

// Cancel tells the client the request with the given id was abandoned.
func (r *Renderer) Cancel(requestID string) error {
	return r.Deliver(context.Background(), &domain.Message{
		Type:      domain.MessageResponse,
		RequestID: requestID,
		State:     domain.ResponseCancelled,
		DataType:  domain.DataVoid,
	})
}

// Emit sends an event to the client.
func (r *Renderer) Emit(event, target string, targetValue uint64, elementType, element string) error {
	if elementType == "" {
		elementType = domain.ElementVoid
	}
	return r.Deliver(context.Background(), &domain.Message{
		Type:        domain.MessageEvent,
		Event:       event,
		Target:      target,
		TargetValue: targetValue,
		ElementType: elementType,
		Element:     element,
		DataType:    domain.DataVoid,
	})
}

// Requests returns the requests received so far, in order.
func (r *Renderer) Requests() []*domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, f := range r.frames {
		if f.Type == domain.MessageRequest {
			out = append(out, f)
		}
	}
	return out
}

// Operations returns the operation names of the requests received so far.
func (r *Renderer) Operations() []string {
	reqs := r.Requests()
	ops := make([]string, len(reqs))
	for i, req := range reqs {
		ops[i] = req.Operation
	}
	return ops
}

// Pings returns how many keep-alive frames the client sent.
func (r *Renderer) Pings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.frames {
		if f.Type == domain.MessagePing {
			n++
		}
	}
	return n
}

// record must be called with mu held.
func (r *Renderer) record(msg *domain.Message) {
	r.frames = append(r.frames, msg)
	close(r.notify)
	r.notify = make(chan struct{})
}

// enqueue must be called with mu held.
func (r *Renderer) enqueue(msg *domain.Message) {
	r.queue = append(r.queue, msg)
	r.cond.Signal()
}

func (r *Renderer) shutdown(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.err = err
	close(r.done)
	r.cond.Broadcast()
}

// pump forwards queued frames to inbound so replies never block Send.
func (r *Renderer) pump() {
	defer close(r.inbound)
	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.closed {
			r.cond.Wait()
		}
		if r.closed {
			r.mu.Unlock()
			return
		}
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		select {
		case r.inbound <- msg:
		case <-r.done:
			return
		}
	}
}
