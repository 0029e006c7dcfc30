package component

import "context"

// Component represents a lifecycle-managed unit supervised by lifekit.
// Each infrastructure module (connection pool, server, worker, etc.)
// implements this interface.
type Component interface {
	// Name returns the display name used for events and diagnostics.
	Name() string

	// Start performs one-time initialization. The component must be
	// ready to serve when Start returns.
	Start(ctx context.Context) error

	// Close performs one-time teardown and releases all resources
	// acquired by Start or by subsequent operation.
	Close(ctx context.Context) error
}

// HealthChecker is optionally implemented by components that can probe
// their own health. CheckHealth returns true if the component is healthy
// and false if it requires recovery. A component that does not implement
// HealthChecker is always treated as healthy.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (bool, error)
}

// Restarter is optionally implemented by components that support targeted
// recovery without a full Close. When a health check fails, the supervisor
// calls Restart if implemented, and falls back to Start otherwise.
type Restarter interface {
	Restart(ctx context.Context) error
}
