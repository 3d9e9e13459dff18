package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/rdrscript"
	"github.com/aretw0/rdrscript/internal/presentation/tui"
	"github.com/aretw0/rdrscript/pkg/adapters/redis"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/observability"
	"github.com/aretw0/rdrscript/pkg/session"
	"golang.org/x/sync/errgroup"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	LogOptions

	App      string
	Runner   string
	Sample   string // defaults to Runner
	Renderer string
	Dir      string
	Library  string

	MetricsAddr  string
	RedisAddr    string
	LockTTL      time.Duration
	ExitWhenIdle bool
	Quiet        bool

	Stdout io.Writer
	Stderr io.Writer
}

func (o *RunOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Sample == "" {
		o.Sample = o.Runner
	}
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if o.Dir == "" && o.Library == "" {
		o.Dir = "."
	}
}

// tty reports whether output goes to an interactive terminal.
func (o *RunOptions) tty() bool {
	f, ok := o.Stdout.(*os.File)
	return ok && tui.IsTerminal(f)
}

// Run loads the sample and drives it against the renderer until the session
// ends or the process is interrupted.
func Run(ctx context.Context, opts RunOptions) error {
	opts.defaults()

	logger, err := createLogger(opts.LogOptions, opts.Stderr)
	if err != nil {
		return err
	}

	client, metrics, cleanup, err := newClient(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Load before connecting so a broken sample never touches the renderer.
	script, err := client.Load(ctx, opts.Sample)
	if err != nil {
		return err
	}

	if !opts.Quiet && opts.tty() {
		tui.PrintBanner(opts.Stdout, rdrscript.Version)
	}

	transport, err := Dial(ctx, opts.Renderer, logger)
	if err != nil {
		return err
	}
	defer transport.Close()

	sess, err := client.NewSession(transport, script)
	if err != nil {
		return err
	}
	if !opts.Quiet {
		snap := sess.Snapshot()
		printSystemMessage(opts.Stdout, "Running '%s' on %s as %s/%s", script.Name, opts.Renderer, snap.App, snap.Runner)
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stopServer := context.WithCancel(gctx)

	if opts.MetricsAddr != "" {
		ln, err := net.Listen("tcp", opts.MetricsAddr)
		if err != nil {
			stopServer()
			return fmt.Errorf("failed to listen on %s: %w", opts.MetricsAddr, err)
		}
		srv := &http.Server{Handler: observability.NewHandler(sess, metrics)}
		logger.Info("status server listening", "addr", ln.Addr().String())

		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(runCtx), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer stopServer()
		return client.RunSession(runCtx, sess)
	})

	runErr := g.Wait()
	snap := sess.Snapshot()
	if !opts.Quiet {
		logCompletion(opts.Stdout, snap, runErr)
	}
	return handleExecutionError(runErr)
}

func logCompletion(w io.Writer, snap domain.SessionSnapshot, err error) {
	switch {
	case isInterrupted(err):
		printSystemMessage(w, "Interrupted after %d of %d operations.", snap.OpsIssued, snap.OpsTotal)
	case err != nil:
		printSystemMessage(w, "Session failed: %v", err)
	default:
		printSystemMessage(w, "Session ended (%s).", snap.Status)
	}
}

// newClient builds the client with hooks, reporter and optional run lock.
func newClient(ctx context.Context, opts RunOptions, logger *slog.Logger) (*rdrscript.Client, *observability.Metrics, func(), error) {
	cfg := rdrscript.DefaultConfig()
	if opts.App != "" {
		cfg.AppName = opts.App
	}
	if opts.Runner != "" {
		cfg.RunnerName = opts.Runner
	}
	cfg.ExitWhenIdle = opts.ExitWhenIdle

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}

	clientOpts := []rdrscript.Option{
		rdrscript.WithConfig(cfg),
		rdrscript.WithLogger(logger),
		rdrscript.WithLifecycleHooks(hooks),
		rdrscript.WithReporter(tui.NewEventReporter(opts.Stdout, opts.tty())),
	}
	if opts.Library != "" {
		clientOpts = append(clientOpts, rdrscript.WithLibrary(opts.Library))
	}

	cleanup := func() {}
	if opts.RedisAddr != "" {
		locker, err := redis.NewFromAddr(ctx, opts.RedisAddr)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = func() { _ = locker.Close() }
		guardOpts := []session.Option{session.WithLocker(locker), session.WithLogger(logger)}
		if opts.LockTTL > 0 {
			guardOpts = append(guardOpts, session.WithTTL(opts.LockTTL))
		}
		clientOpts = append(clientOpts, rdrscript.WithGuard(session.NewGuard(guardOpts...)))
	}

	client, err := rdrscript.New(opts.Dir, clientOpts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return client, metrics, cleanup, nil
}
