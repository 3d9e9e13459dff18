package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Peer is the renderer end of a transport under contract test.
type Peer interface {
	// Receive returns the next frame the client sent.
	Receive(ctx context.Context) (*domain.Message, error)

	// Deliver sends a frame to the client.
	Deliver(ctx context.Context, msg *domain.Message) error
}

// TransportFactory connects a fresh transport to a fresh peer.
type TransportFactory func(t *testing.T) (Transport, Peer)

// RunTransportContract runs a suite of tests to verify that a Transport implementation
// adheres to the defined interface contract.
func RunTransportContract(t *testing.T, factory TransportFactory) {
	t.Run("Send reaches the peer with a fresh id", func(t *testing.T) {
		tr, peer := factory(t)
		defer tr.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req := domain.NewRequest(domain.TargetPlainWindow, 0x1001, domain.OpLoad).WithText("<p>héllo</p>")
		id1, err := tr.Send(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, id1)

		got, err := peer.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageRequest, got.Type)
		assert.Equal(t, id1, got.RequestID)
		assert.Equal(t, domain.OpLoad, got.Operation)
		assert.Equal(t, domain.TargetPlainWindow, got.Target)
		assert.Equal(t, uint64(0x1001), got.TargetValue)
		text, ok := got.Text()
		assert.True(t, ok)
		assert.Equal(t, "<p>héllo</p>", text)

		id2, err := tr.Send(ctx, domain.NewRequest(domain.TargetWorkspace, 0, domain.OpCreatePlainWindow))
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)
		_, err = peer.Receive(ctx)
		require.NoError(t, err)
	})

	t.Run("Responses and events arrive in order", func(t *testing.T) {
		tr, peer := factory(t)
		defer tr.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.NoError(t, peer.Deliver(ctx, &domain.Message{
			Type:        domain.MessageResponse,
			RequestID:   "r-1",
			RetCode:     domain.StatusOK,
			ResultValue: 0x2002,
		}))
		require.NoError(t, peer.Deliver(ctx, &domain.Message{
			Type:        domain.MessageEvent,
			Event:       "click",
			Target:      domain.TargetDOM,
			TargetValue: 0x2002,
			ElementType: domain.ElementHandle,
			Element:     "beef",
			DataType:    domain.DataEJSON,
			Data:        variant.Object(variant.Member{Key: "x", Value: variant.Int(1)}),
		}))

		resp := receive(ctx, t, tr)
		assert.Equal(t, domain.MessageResponse, resp.Type)
		assert.Equal(t, "r-1", resp.RequestID)
		assert.True(t, resp.OK())
		assert.Equal(t, uint64(0x2002), resp.ResultValue)

		evt := receive(ctx, t, tr)
		assert.Equal(t, domain.MessageEvent, evt.Type)
		assert.Equal(t, "click", evt.Event)
		assert.Equal(t, "beef", evt.Element)
		x, ok := evt.Data.Get("x")
		require.True(t, ok)
		n, _ := x.AsInt64()
		assert.Equal(t, int64(1), n)
	})

	t.Run("Ping and pong", func(t *testing.T) {
		tr, peer := factory(t)
		defer tr.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.NoError(t, tr.Ping(ctx))
		got, err := peer.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.MessagePing, got.Type)

		require.NoError(t, peer.Deliver(ctx, &domain.Message{Type: domain.MessagePing}))
		got, err = peer.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.MessagePong, got.Type)
	})

	t.Run("Close ends the connection", func(t *testing.T) {
		tr, _ := factory(t)
		require.NoError(t, tr.Close())

		_, err := tr.Send(context.Background(), domain.NewRequest(domain.TargetSession, 0, domain.OpStartSession))
		assert.ErrorIs(t, err, domain.ErrTransportClosed)

		select {
		case _, ok := <-tr.Inbound():
			assert.False(t, ok, "inbound must be closed")
		case <-time.After(5 * time.Second):
			t.Fatal("inbound not closed after Close")
		}
	})
}

func receive(ctx context.Context, t *testing.T, tr Transport) *domain.Message {
	t.Helper()
	select {
	case msg, ok := <-tr.Inbound():
		require.True(t, ok, "inbound closed early")
		return msg
	case <-ctx.Done():
		t.Fatal("timed out waiting for inbound message")
		return nil
	}
}
