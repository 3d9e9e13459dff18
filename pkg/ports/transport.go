package ports

import (
	"context"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// Transport is one connection to a renderer.
//
// Implementations decode inbound frames on their own goroutine and deliver
// responses and events, in arrival order, on the Inbound channel. The channel
// is closed when the connection ends; Err then reports why.
// Inbound pings are answered by the transport and never delivered.
type Transport interface {
	// Send transmits a request and returns the request id it was assigned.
	// Nothing is sent when an error is returned.
	Send(ctx context.Context, req *domain.Message) (string, error)

	// Ping sends a keep-alive frame.
	Ping(ctx context.Context) error

	// Inbound delivers responses and events.
	Inbound() <-chan *domain.Message

	// Err returns the error that ended the connection, nil while it is alive.
	Err() error

	// Close ends the connection and closes Inbound.
	Close() error
}
