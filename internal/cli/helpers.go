package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/rdrscript/internal/logging"
	"github.com/aretw0/rdrscript/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LogOptions selects the logger of a command.
type LogOptions struct {
	Debug  bool   // Forces the debug level
	Level  string // "debug", "info", "warn" or "error"; default warn
	Format string // "text" or "json"
}

// createLogger configures the application logger.
// It writes to stderr so that event reports on stdout stay readable.
func createLogger(opts LogOptions, stderr io.Writer) (*slog.Logger, error) {
	level := slog.LevelWarn
	if opts.Level != "" {
		l, err := logging.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	switch opts.Format {
	case "", "text":
		return logging.NewText(stderr, level), nil
	case "json":
		return logging.NewJSON(stderr, level), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text or json)", opts.Format)
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequestSent: func(ctx context.Context, e *domain.RequestEvent) {
			logger.Debug("request sent",
				"request_id", e.RequestID,
				"operation", e.Operation,
				"window", e.Window,
				"bytes", e.Bytes,
			)
		},
		OnResponse: func(ctx context.Context, e *domain.ResponseEvent) {
			logger.Debug("response",
				"request_id", e.RequestID,
				"operation", e.Operation,
				"ret_code", e.RetCode,
				"cancelled", e.Cancelled,
				"latency", e.Latency,
			)
		},
		OnEvent: func(ctx context.Context, e *domain.RendererEvent) {
			logger.Debug("renderer event", "event", e.Event, "target", e.Target, "matched", e.Matched, "action", e.Action)
		},
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// handleExecutionError maps an interrupted run to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
