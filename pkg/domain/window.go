package domain

import "strconv"

// TransferState is the progress of a window's document transfer.
type TransferState string

const (
	TransferEmpty         TransferState = "empty"          // Slot not created yet
	TransferWindowPending TransferState = "window_pending" // createPlainWindow in flight
	TransferWindowReady   TransferState = "window_ready"   // Window handle known
	TransferLoading       TransferState = "loading"        // Single load in flight
	TransferWritePending  TransferState = "write_pending"  // Chunked write in flight
	TransferWritten       TransferState = "written"        // DOM handle known
	TransferFailed        TransferState = "failed"         // Absorbing failure state
)

// Window is a window slot. Handles are opaque; zero means unassigned.
type Window struct {
	Index int
	Name  string
	Title string

	Handle    uint64
	DOMHandle uint64

	// Content is the source document, nil once released.
	Content []byte
	Written int
	Total   int

	State TransferState
}

// NewWindow returns an empty slot for index i.
func NewWindow(i int) *Window {
	return &Window{
		Index: i,
		Name:  WindowNamePrefix + strconv.Itoa(i),
		State: TransferEmpty,
	}
}

// Created reports whether the renderer assigned a window handle.
func (w *Window) Created() bool {
	return w.Handle != 0
}

// Remaining returns the bytes not yet sent.
func (w *Window) Remaining() []byte {
	if w.Content == nil || w.Written >= len(w.Content) {
		return nil
	}
	return w.Content[w.Written:]
}

// Release drops the source buffer once the transfer completed.
func (w *Window) Release() {
	w.Content = nil
}

// Reset clears every handle and buffer, e.g. after the renderer destroyed the window.
func (w *Window) Reset() {
	*w = *NewWindow(w.Index)
}
