package runtime

import (
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/rdrscript/pkg/chunker"
	"github.com/aretw0/rdrscript/pkg/domain"
)

// Config holds the tunables of a session.
type Config struct {
	// AppName and RunnerName identify the client in the startSession handshake.
	AppName    string
	RunnerName string

	// ChunkSize is the write threshold: smaller documents are loaded in one
	// request, larger ones are streamed in chunks of at most this many bytes.
	ChunkSize int

	// PollInterval bounds how long the driver loop waits for a message
	// before running its timers.
	PollInterval time.Duration

	// Handshake sends startSession before the first operation.
	Handshake bool

	// ExitWhenIdle ends the run once the script completed, when no event
	// subscriptions could still act.
	ExitWhenIdle bool
}

// DefaultConfig returns the settings used by the command line client.
func DefaultConfig() Config {
	return Config{
		AppName:      "cn.fmsoft.hvml.purcmc",
		RunnerName:   "sample",
		ChunkSize:    chunker.DefaultSize,
		PollInterval: 200 * time.Millisecond,
		Handshake:    true,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Hooks run on the session goroutine and must not call back into the session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithReporter sets where consumed-but-ignored events are reported.
func WithReporter(r Reporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithContentReader overrides how document files are read.
func WithContentReader(read func(path string) ([]byte, error)) Option {
	return func(s *Session) {
		s.readFile = read
	}
}

// WithClock overrides the wall clock used for keep-alive pings.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func defaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
