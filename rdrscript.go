package rdrscript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/rdrscript/internal/compiler"
	"github.com/aretw0/rdrscript/internal/logging"
	"github.com/aretw0/rdrscript/internal/runtime"
	"github.com/aretw0/rdrscript/internal/validator"
	"github.com/aretw0/rdrscript/pkg/adapters/file"
	loamAdapter "github.com/aretw0/rdrscript/pkg/adapters/loam"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
	"github.com/aretw0/rdrscript/pkg/session"
)

// Version is the client version, overridden at link time.
var Version = "0.1.0-dev"

// Session drives one script against one renderer connection.
type Session = runtime.Session

// Config holds the session tunables.
type Config = runtime.Config

// Reporter receives events a session consumed without acting on them.
type Reporter = runtime.Reporter

// DefaultConfig returns the settings used by the command line client.
func DefaultConfig() Config {
	return runtime.DefaultConfig()
}

// Client loads samples and runs them against renderers.
type Client struct {
	loader   ports.SampleLoader
	library  string
	cfg      Config
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	reporter Reporter
	guard    *session.Guard
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithLoader injects a custom SampleLoader, bypassing the default file loader.
func WithLoader(l ports.SampleLoader) Option {
	return func(c *Client) {
		c.loader = l
	}
}

// WithLibrary reads samples from a Loam library instead of a plain directory.
func WithLibrary(path string) Option {
	return func(c *Client) {
		c.library = path
	}
}

// WithConfig replaces the default session configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// WithLifecycleHooks registers observability hooks on every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithReporter sets where unmatched events are reported.
func WithReporter(r Reporter) Option {
	return func(c *Client) {
		c.reporter = r
	}
}

// WithGuard serializes runs against the same app and runner.
func WithGuard(g *session.Guard) Option {
	return func(c *Client) {
		c.guard = g
	}
}

// New creates a client reading samples from dir.
// If WithLoader or WithLibrary is given, dir may be empty.
func New(dir string, opts ...Option) (*Client, error) {
	c := &Client{cfg: runtime.DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}

	switch {
	case c.loader != nil:
	case c.library != "":
		l, err := loamAdapter.Open(c.library)
		if err != nil {
			return nil, err
		}
		c.loader = l
	case dir != "":
		c.loader = file.New(dir)
	default:
		return nil, errors.New("a sample directory is required when no loader is provided")
	}

	if c.reporter == nil {
		c.reporter = runtime.NewLogReporter(c.logger)
	}
	return c, nil
}

// Loader returns the underlying SampleLoader.
func (c *Client) Loader() ports.SampleLoader {
	return c.loader
}

// Load reads, compiles and validates the named sample.
func (c *Client) Load(ctx context.Context, name string) (*domain.Script, error) {
	doc, err := c.loader.GetSample(ctx, name)
	if err != nil {
		return nil, err
	}
	script, err := compiler.NewParser(compiler.WithLogger(c.logger)).Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", name, err)
	}
	if err := validator.ValidateScript(script); err != nil {
		return nil, fmt.Errorf("sample %s: %w", name, err)
	}
	return script, nil
}

// NewSession prepares script to run over transport.
func (c *Client) NewSession(transport ports.Transport, script *domain.Script) (*Session, error) {
	return runtime.NewSession(transport, script,
		runtime.WithConfig(c.cfg),
		runtime.WithLogger(c.logger),
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithReporter(c.reporter),
	)
}

// RunSession drives s until it ends, holding the run lock when a guard is set.
func (c *Client) RunSession(ctx context.Context, s *Session) error {
	if c.guard == nil {
		return s.Run(ctx)
	}
	key := session.RunKey(c.cfg.AppName, c.cfg.RunnerName)
	return c.guard.WithLock(ctx, key, s.Run)
}

// Run loads the named sample and drives it over transport.
func (c *Client) Run(ctx context.Context, transport ports.Transport, name string) (domain.SessionSnapshot, error) {
	script, err := c.Load(ctx, name)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	s, err := c.NewSession(transport, script)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	err = c.RunSession(ctx, s)
	return s.Snapshot(), err
}
