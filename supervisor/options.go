package supervisor

import (
	"time"

	"github.com/kbukum/lifekit/logger"
)

// DefaultHealthCheckInterval is the polling period of the health-check
// loop when no override is configured.
const DefaultHealthCheckInterval = 600 * time.Millisecond

// Option configures a Supervisor during creation.
type Option func(*Supervisor)

// WithName sets a display name used in log fields.
func WithName(name string) Option {
	return func(s *Supervisor) {
		s.name = name
	}
}

// WithHealthCheckInterval sets the polling period of the health-check loop.
// Non-positive values are ignored.
func WithHealthCheckInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithGracefulTimeout bounds signal-driven shutdown: CloseAndExit wraps
// its context with this deadline before closing components. Zero (the
// default) means no deadline.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.gracefulTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the supervisor.
func WithLogger(l *logger.Logger) Option {
	return func(s *Supervisor) {
		s.log = l
	}
}

// WithExitFunc replaces the process-exit function used by CloseAndExit
// and the termination-signal handler. The default is os.Exit; tests
// inject a recorder so signal-driven shutdown stays observable.
func WithExitFunc(fn func(code int)) Option {
	return func(s *Supervisor) {
		s.exit = fn
	}
}
