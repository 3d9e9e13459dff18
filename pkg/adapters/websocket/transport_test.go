package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/rdrscript/pkg/adapters/websocket"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = gws.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsPeer is the renderer end, served by httptest.
type wsPeer struct {
	conn   *gws.Conn
	frames chan *domain.Message
}

func (p *wsPeer) Receive(ctx context.Context) (*domain.Message, error) {
	select {
	case msg, ok := <-p.frames:
		if !ok {
			return nil, domain.ErrTransportClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *wsPeer) Deliver(_ context.Context, msg *domain.Message) error {
	return p.conn.WriteJSON(msg)
}

func connect(t *testing.T) (ports.Transport, *wsPeer) {
	t.Helper()
	peers := make(chan *wsPeer, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p := &wsPeer{conn: conn, frames: make(chan *domain.Message, 16)}
		go func() {
			defer close(p.frames)
			for {
				var msg domain.Message
				if err := conn.ReadJSON(&msg); err != nil {
					return
				}
				p.frames <- &msg
			}
		}()
		peers <- p
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	tr, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)

	select {
	case p := <-peers:
		t.Cleanup(func() { _ = p.conn.Close() })
		return tr, p
	case <-ctx.Done():
		t.Fatal("renderer never accepted the connection")
		return nil, nil
	}
}

func TestTransport_Contract(t *testing.T) {
	ports.RunTransportContract(t, func(t *testing.T) (ports.Transport, ports.Peer) {
		return connect(t)
	})
}

func TestTransport_BinaryFramesIgnored(t *testing.T) {
	tr, peer := connect(t)
	defer tr.Close()

	require.NoError(t, peer.conn.WriteMessage(gws.BinaryMessage, []byte{0x01, 0x02}))
	require.NoError(t, peer.Deliver(context.Background(), &domain.Message{
		Type:    domain.MessageEvent,
		Event:   "click",
		Target:  domain.TargetPlainWindow,
		Element: "",
	}))

	select {
	case msg := <-tr.Inbound():
		assert.Equal(t, "click", msg.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestTransport_ServerCloseSetsErr(t *testing.T) {
	tr, peer := connect(t)
	defer tr.Close()

	require.NoError(t, peer.conn.Close())

	select {
	case _, ok := <-tr.Inbound():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("inbound not closed")
	}
	assert.Error(t, tr.Err())
}

func TestDial_Refused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	_, err := websocket.Dial(context.Background(), url, nil)
	assert.Error(t, err)
}
