package socket

import (
	"bufio"
	"context"
	"fmt"
	"net"
)

// MaxFrameSize bounds one NDJSON line.
const MaxFrameSize = 4 << 20

// lineFramer frames messages as newline-delimited JSON.
type lineFramer struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

// NewLineFramer frames conn as NDJSON.
func NewLineFramer(conn net.Conn) Framer {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxFrameSize)
	return &lineFramer{conn: conn, scanner: scanner}
}

func (f *lineFramer) ReadFrame() ([]byte, error) {
	if f.scanner.Scan() {
		return f.scanner.Bytes(), nil
	}
	if err := f.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("connection closed by renderer")
}

func (f *lineFramer) WriteFrame(frame []byte) error {
	_, err := f.conn.Write(append(frame, '\n'))
	return err
}

func (f *lineFramer) Close() error {
	return f.conn.Close()
}

// New wraps an established connection.
func New(conn net.Conn, opts ...Option) *Transport {
	return NewTransport(NewLineFramer(conn), opts...)
}

// Dial connects to a renderer listening on the unix socket at path.
func Dial(ctx context.Context, path string, opts ...Option) (*Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to renderer at %s: %w", path, err)
	}
	return New(conn, opts...), nil
}
