package supervisor

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/lifekit/component"
	"github.com/kbukum/lifekit/errors"
	"github.com/kbukum/lifekit/logger"
)

// Supervisor coordinates the ordered startup and shutdown of a fixed set
// of long-lived components within a single process, and monitors their
// health while running, restarting components that report failure.
//
// Components start in registration order and close in the exact reverse
// order. No two of startup, shutdown, and a health-check cycle ever run
// concurrently against the component set: shutdown waits on the health
// loop's completion signal before touching any component.
//
// A Supervisor is created once per process, started once, and closed
// once; it is not reusable after reaching StatusClosed.
type Supervisor struct {
	id   string
	name string

	mu         sync.Mutex
	status     Status
	components []component.Component

	interval        time.Duration
	gracefulTimeout time.Duration
	events          *emitter
	log             *logger.Logger
	metrics         *metrics

	// healthDone is the one-shot completion signal, created at
	// construction and closed exactly once when the health loop
	// observes a non-running status.
	healthDone chan struct{}
	// closedCh is closed when the supervisor reaches StatusClosed;
	// concurrent Close calls wait on it instead of starting a second
	// shutdown sequence.
	closedCh chan struct{}

	sigCh chan os.Signal
	exit  func(code int)
}

// New creates a Supervisor in StatusPending.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		id:         uuid.NewString(),
		name:       "supervisor",
		status:     StatusPending,
		interval:   DefaultHealthCheckInterval,
		events:     newEmitter(),
		metrics:    newMetrics(),
		healthDone: make(chan struct{}),
		closedCh:   make(chan struct{}),
		exit:       os.Exit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithFields(map[string]interface{}{
		logger.FieldSupervisor: s.id,
		"name":                 s.name,
	})

	return s
}

// ID returns the unique instance id used in log fields.
func (s *Supervisor) ID() string { return s.id }

// Status returns the current lifecycle status.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// On subscribes a handler to events of the given kind.
func (s *Supervisor) On(kind EventKind, h Handler) {
	s.events.on(kind, h)
}

// All subscribes a handler to every event the supervisor emits.
func (s *Supervisor) All(h Handler) {
	s.events.onAll(h)
}

// Register appends a component to the ordered set. It fails with an
// illegal-state error once startup has begun: the component sequence is
// immutable after Start.
func (s *Supervisor) Register(c component.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPending {
		return errors.IllegalState("register", string(s.status))
	}

	s.components = append(s.components, c)
	s.log.Debug("Component registered", map[string]interface{}{
		logger.FieldComponent: c.Name(),
	})
	return nil
}

// Start runs the startup sequence: every registered component starts in
// registration order, a termination-signal handler is installed, the
// supervisor transitions to StatusRunning, and the health-check loop is
// spawned.
//
// If a component fails to start, the error propagates immediately:
// later components are never started, already-started components are
// not rolled back, and the supervisor stays in StatusStarting. The
// caller decides whether to close what did start.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusPending {
		st := s.status
		s.mu.Unlock()
		return errors.IllegalState("start", string(st))
	}
	s.status = StatusStarting
	comps := s.components
	s.mu.Unlock()

	s.events.emit(statusEvent(StatusStarting))
	s.log.Info("Starting components", map[string]interface{}{
		"count": len(comps),
	})

	for _, c := range comps {
		if err := c.Start(ctx); err != nil {
			s.log.Error("Component start failed", logger.ErrorFields("start", err))
			return errors.StartFailed(c.Name(), err)
		}
		s.events.emit(Event{Kind: EventComponentStarted, Component: c.Name()})
		s.log.Debug("Component started", map[string]interface{}{
			logger.FieldComponent: c.Name(),
		})
	}

	s.installSignalHandler()

	s.mu.Lock()
	s.status = StatusRunning
	s.mu.Unlock()
	s.events.emit(statusEvent(StatusRunning))

	// Spawned only after the running transition is published, so the
	// loop's first exit check can never observe StatusStarting.
	go s.healthLoop()

	s.log.Info("Supervisor running", map[string]interface{}{
		logger.FieldInterval: s.interval.Milliseconds(),
	})
	return nil
}

// Close runs the shutdown sequence: the signal handler is removed, the
// health loop is allowed to wind down, and every component closes in
// the exact reverse of registration order.
//
// Close is legal only from StatusRunning, except that a concurrent
// Close while already closing coalesces: it starts no second sequence
// and returns once the first one reaches StatusClosed (or ctx is done).
// A component close failure propagates immediately and aborts the
// remaining teardown, leaving the supervisor in StatusClosing.
func (s *Supervisor) Close(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case StatusClosing:
		s.mu.Unlock()
		select {
		case <-s.closedCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	case StatusRunning:
		// proceed
	default:
		st := s.status
		s.mu.Unlock()
		return errors.IllegalState("close", string(st))
	}

	s.removeSignalHandler()
	s.status = StatusClosing
	s.mu.Unlock()

	s.events.emit(statusEvent(StatusClosing))
	s.log.Info("Closing supervisor")

	// The health loop may run at most one more full cycle before it
	// observes the status change; no component is touched until it has.
	<-s.healthDone

	s.mu.Lock()
	comps := s.components
	s.mu.Unlock()

	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		s.events.emit(Event{Kind: EventComponentClosing, Component: c.Name()})
		if err := c.Close(ctx); err != nil {
			s.log.Error("Component close failed", logger.ErrorFields("close", err))
			return errors.CloseFailed(c.Name(), err)
		}
		s.events.emit(Event{Kind: EventComponentClosed, Component: c.Name()})
		s.log.Debug("Component closed", map[string]interface{}{
			logger.FieldComponent: c.Name(),
		})
	}

	s.mu.Lock()
	s.status = StatusClosed
	s.mu.Unlock()
	s.events.emit(statusEvent(StatusClosed))
	close(s.closedCh)

	s.log.Info("Supervisor closed")
	return nil
}

// CloseAndExit closes the supervisor and terminates the process: exit
// status 0 after a clean shutdown, 1 after a failed one. The exit
// function defaults to os.Exit and is injectable via WithExitFunc.
// When a graceful timeout is configured (WithGracefulTimeout), the
// shutdown context carries that deadline, so ctx-aware components abort
// instead of holding the process open.
func (s *Supervisor) CloseAndExit(ctx context.Context) {
	if s.gracefulTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.gracefulTimeout)
		defer cancel()
	}

	if err := s.Close(ctx); err != nil {
		if s.gracefulTimeout > 0 && stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Timeout("close", s.gracefulTimeout).WithCause(err)
		}
		s.log.Error("Shutdown failed", logger.ErrorFields("close", err))
		s.exit(1)
		return
	}
	s.exit(0)
}

// installSignalHandler scopes SIGINT/SIGTERM handling to this supervisor
// instance: installed during startup, removed at the start of shutdown.
func (s *Supervisor) installSignalHandler() {
	s.mu.Lock()
	s.sigCh = make(chan os.Signal, 1)
	sigCh := s.sigCh
	s.mu.Unlock()

	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		s.log.Info("Received termination signal", map[string]interface{}{
			"signal": sig.String(),
		})
		s.CloseAndExit(context.Background())
	}()
}

// removeSignalHandler is called with s.mu held.
func (s *Supervisor) removeSignalHandler() {
	if s.sigCh == nil {
		return
	}
	signal.Stop(s.sigCh)
	close(s.sigCh)
	s.sigCh = nil
}
