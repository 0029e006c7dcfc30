// Package component defines the contract for lifecycle-managed
// units in lifekit.
//
// A Component is anything with a one-time Start and a one-time Close:
// a connection pool, an HTTP server, a background worker. Components
// are registered with a supervisor which starts them in registration
// order, closes them in reverse order, and monitors them while running.
//
// # Interfaces
//
//   - Component: mandatory lifecycle pair (Start/Close)
//   - HealthChecker: optional periodic health probe
//   - Restarter: optional targeted recovery, cheaper than Close+Start
//
// Capabilities are discovered by type assertion; a component implements
// only what it needs.
//
// Group is the building block for composite components that supervise
// their own ordered set of children behind a single Start/Close pair.
package component
