package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Lifecycle(t *testing.T) {
	w := NewWindow(3)
	assert.Equal(t, "the-plain-window-3", w.Name)
	assert.Equal(t, TransferEmpty, w.State)
	assert.False(t, w.Created())

	w.Handle = 0x1001
	w.Content = []byte("abcdef")
	w.Total = 6
	w.Written = 4
	assert.True(t, w.Created())
	assert.Equal(t, []byte("ef"), w.Remaining())

	w.Written = 6
	assert.Nil(t, w.Remaining())

	w.Release()
	assert.Nil(t, w.Content)
	assert.Equal(t, 6, w.Written, "counters survive the release")

	w.Reset()
	assert.Equal(t, 3, w.Index)
	assert.Zero(t, w.Handle)
	assert.Equal(t, TransferEmpty, w.State)
}

func TestContinuation(t *testing.T) {
	c := WindowContinuation(2)
	assert.Equal(t, 2, c.WindowIndex())
	assert.Equal(t, "window/2", c.String())

	s := SessionContinuation()
	assert.Equal(t, -1, s.WindowIndex())
	assert.Equal(t, "session", s.String())
}

func TestResponseError(t *testing.T) {
	var err error = &ResponseError{Operation: OpCreatePlainWindow, Window: 0, RetCode: 500}
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "ret code 500")

	var re *ResponseError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, 500, re.RetCode)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{
		OnRequestSent: func(context.Context, *RequestEvent) { calls = append(calls, "a") },
	}
	b := LifecycleHooks{
		OnRequestSent: func(context.Context, *RequestEvent) { calls = append(calls, "b") },
		OnEvent:       func(context.Context, *RendererEvent) { calls = append(calls, "b-event") },
	}

	merged := a.Merge(b)
	merged.OnRequestSent(context.Background(), &RequestEvent{})
	merged.OnEvent(context.Background(), &RendererEvent{})
	assert.Nil(t, merged.OnResponse)
	assert.Equal(t, []string{"a", "b", "b-event"}, calls)
}

func TestMessage_Builders(t *testing.T) {
	m := NewRequest(TargetPlainWindow, 0x1001, OpLoad).WithText("<html/>")
	assert.Equal(t, MessageRequest, m.Type)
	assert.Equal(t, ElementVoid, m.ElementType)
	text, ok := m.Text()
	assert.True(t, ok)
	assert.Equal(t, "<html/>", text)
	assert.Equal(t, 7, m.DataSize())

	resp := &Message{Type: MessageResponse, RetCode: StatusOK}
	assert.True(t, resp.OK())
	assert.False(t, resp.Cancelled())
	resp.State = ResponseCancelled
	assert.True(t, resp.Cancelled())
}
