package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyScript is returned when a sample has no initial operations.
	ErrEmptyScript = errors.New("script has no operations")

	// ErrSampleNotFound is returned by loaders for unknown sample names.
	ErrSampleNotFound = errors.New("sample not found")

	// ErrInvalidScript is returned when a sample cannot be decoded into a Script.
	ErrInvalidScript = errors.New("invalid script")

	// ErrChunking is returned when no complete character fits in a chunk.
	ErrChunking = errors.New("no complete character fits in chunk")

	// ErrContentUnavailable is returned when document content cannot be read.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrInvalidLocator is returned for malformed or unresolvable locators.
	ErrInvalidLocator = errors.New("invalid locator")

	// ErrWindowNotReady is returned when an operation addresses a window in the wrong state.
	ErrWindowNotReady = errors.New("window not ready")

	// ErrNoFreeWindow is returned when every declared window slot is already created.
	ErrNoFreeWindow = errors.New("no free window slot")

	// ErrUnknownOperation is returned for operation names the client cannot issue.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrContinuationMismatch is returned when a response reaches a handler
	// for a different kind of continuation.
	ErrContinuationMismatch = errors.New("continuation mismatch")

	// ErrRequestFailed is the root of every non-success response.
	ErrRequestFailed = errors.New("request failed")

	// ErrConnectionLost is returned when the renderer connection drops.
	ErrConnectionLost = errors.New("connection lost")

	// ErrTransportClosed is returned when sending on a closed transport.
	ErrTransportClosed = errors.New("transport closed")
)

// ResponseError reports a non-success response to a request.
type ResponseError struct {
	Operation string
	Window    int
	RetCode   int
}

func (e *ResponseError) Error() string {
	if e.Window < 0 {
		return fmt.Sprintf("%s: ret code %d", e.Operation, e.RetCode)
	}
	return fmt.Sprintf("%s for window %d: ret code %d", e.Operation, e.Window, e.RetCode)
}

func (e *ResponseError) Unwrap() error {
	return ErrRequestFailed
}
