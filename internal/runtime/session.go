package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/rdrscript/internal/logging"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
)

// Session drives one sample against one renderer connection.
//
// All state is owned by the goroutine calling Run (or the exported step
// methods). The mutex only lets Snapshot and the status accessors read from
// other goroutines.
type Session struct {
	mu sync.RWMutex

	cfg       Config
	transport ports.Transport
	script    *domain.Script
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	reporter  Reporter
	readFile  func(string) ([]byte, error)
	now       func() time.Time

	windows []*domain.Window
	created int

	pending map[string]*pendingEntry

	// operation queue
	next   int
	issued int
	idle   bool

	running bool
	status  domain.SessionStatus
	err     error
}

// NewSession creates a session for script over transport.
func NewSession(transport ports.Transport, script *domain.Script, opts ...Option) (*Session, error) {
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	if script == nil {
		return nil, fmt.Errorf("%w: script is required", domain.ErrInvalidScript)
	}

	s := &Session{
		cfg:       DefaultConfig(),
		transport: transport,
		script:    script,
		logger:    logging.NewNop(),
		readFile:  defaultReadFile,
		now:       time.Now,
		pending:   make(map[string]*pendingEntry),
		status:    domain.SessionIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("sample", script.Name)
	if s.reporter == nil {
		s.reporter = NewLogReporter(s.logger)
	}
	if s.cfg.ChunkSize <= 0 {
		s.cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if s.cfg.PollInterval <= 0 {
		s.cfg.PollInterval = DefaultConfig().PollInterval
	}

	nr := script.NrWindows
	if nr <= 0 || nr > domain.MaxWindows {
		s.logger.Warn("wrong number of windows, using 1", "nr_windows", nr)
		nr = 1
	}
	s.windows = make([]*domain.Window, nr)
	for i := range s.windows {
		s.windows[i] = domain.NewWindow(i)
	}
	return s, nil
}

// Running reports whether the driver loop should keep going.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status returns the lifecycle status.
func (s *Session) Status() domain.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error that stopped the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Pending returns the number of outstanding requests.
func (s *Session) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// Window returns a copy of window slot i.
func (s *Session) Window(i int) (domain.WindowSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.windows) {
		return domain.WindowSnapshot{}, false
	}
	return snapshotWindow(s.windows[i]), true
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.SessionSnapshot{
		App:       s.cfg.AppName,
		Runner:    s.cfg.RunnerName,
		Sample:    s.script.Name,
		Status:    s.status,
		OpsIssued: s.issued,
		OpsTotal:  len(s.script.InitialOps),
		Pending:   len(s.pending),
		Windows:   make([]domain.WindowSnapshot, len(s.windows)),
	}
	for i, w := range s.windows {
		snap.Windows[i] = snapshotWindow(w)
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// Stop ends the session without error, e.g. on user interrupt.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish(domain.SessionQuit)
}

func snapshotWindow(w *domain.Window) domain.WindowSnapshot {
	return domain.WindowSnapshot{
		Index:     w.Index,
		Name:      w.Name,
		Handle:    w.Handle,
		DOMHandle: w.DOMHandle,
		Written:   w.Written,
		Total:     w.Total,
		State:     w.State,
	}
}

// fail stops the session with err. The first error wins.
func (s *Session) fail(err error) {
	if s.err == nil {
		s.err = err
		s.logger.Error("session failed", "err", err)
	}
	s.running = false
	s.status = domain.SessionFailed
}

// finish stops the session cleanly unless it already failed.
func (s *Session) finish(status domain.SessionStatus) {
	s.running = false
	if s.status != domain.SessionFailed {
		s.status = status
	}
}

// window returns slot i if it holds a created window.
func (s *Session) window(i int) (*domain.Window, error) {
	if i < 0 || i >= len(s.windows) {
		return nil, fmt.Errorf("%w: window %d out of range (%d declared)", domain.ErrInvalidLocator, i, len(s.windows))
	}
	w := s.windows[i]
	if !w.Created() {
		return nil, fmt.Errorf("%w: window %d not created", domain.ErrWindowNotReady, i)
	}
	return w, nil
}
