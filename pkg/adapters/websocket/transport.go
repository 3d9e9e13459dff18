// Package websocket connects to a renderer over a WebSocket, one JSON
// message per text frame.
package websocket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/rdrscript/pkg/adapters/socket"
	"github.com/gorilla/websocket"
)

type framer struct {
	conn *websocket.Conn
}

// NewFramer frames messages as WebSocket text frames.
func NewFramer(conn *websocket.Conn) socket.Framer {
	return &framer{conn: conn}
}

func (f *framer) ReadFrame() ([]byte, error) {
	for {
		kind, data, err := f.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage {
			return data, nil
		}
	}
}

func (f *framer) WriteFrame(frame []byte) error {
	return f.conn.WriteMessage(websocket.TextMessage, frame)
}

func (f *framer) Close() error {
	_ = f.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return f.conn.Close()
}

// New wraps an established WebSocket connection.
func New(conn *websocket.Conn, opts ...socket.Option) *socket.Transport {
	conn.SetReadLimit(socket.MaxFrameSize)
	return socket.NewTransport(NewFramer(conn), opts...)
}

// Dial connects to a renderer at a ws:// or wss:// URL.
func Dial(ctx context.Context, url string, header http.Header, opts ...socket.Option) (*socket.Transport, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to renderer at %s: %w", url, err)
	}
	return New(conn, opts...), nil
}
