package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/rdrscript/pkg/adapters/memory"
	"github.com/aretw0/rdrscript/pkg/adapters/socket"
	"github.com/aretw0/rdrscript/pkg/adapters/websocket"
	"github.com/aretw0/rdrscript/pkg/ports"
)

// DefaultRenderer is the renderer address used when none is given.
const DefaultRenderer = "unix:///var/tmp/purcmc.sock"

// Dial connects to the renderer at addr.
//
//	unix:///path or /path  local socket, NDJSON frames
//	ws://host/... wss://   WebSocket, one message per text frame
//	mem://                 in-process loopback renderer (dry run)
func Dial(ctx context.Context, addr string, logger *slog.Logger) (ports.Transport, error) {
	opts := []socket.Option{socket.WithLogger(logger)}
	switch {
	case addr == "":
		return nil, fmt.Errorf("renderer address is required")
	case strings.HasPrefix(addr, "mem://"):
		return memory.NewRenderer(), nil
	case strings.HasPrefix(addr, "ws://"), strings.HasPrefix(addr, "wss://"):
		return websocket.Dial(ctx, addr, nil, opts...)
	case strings.HasPrefix(addr, "unix://"):
		return socket.Dial(ctx, strings.TrimPrefix(addr, "unix://"), opts...)
	case strings.Contains(addr, "://"):
		scheme, _, _ := strings.Cut(addr, "://")
		return nil, fmt.Errorf("unsupported renderer scheme %q", scheme)
	}
	return socket.Dial(ctx, addr, opts...)
}
