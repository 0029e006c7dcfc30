// Package testutil provides scripted fake components for testing
// supervisor behavior: a basic component, a health-checked one, a
// restartable one, and a composite parent that supervises children
// through a component.Group. All record their lifecycle calls into a
// shared Recorder so tests can assert on exact ordering.
package testutil
