package server

import (
	"context"

	"github.com/kbukum/lifekit/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)
var _ component.HealthChecker = (*Component)(nil)

// Component wraps Server to implement component.Component. It has no
// Restart capability: recovery for a dead server is a fresh Start,
// which rebinds the listener.
type Component struct {
	server *Server
}

// NewComponent returns a lifekit component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component display name.
func (c *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (c *Component) Start(ctx context.Context) error {
	return c.server.Start(ctx)
}

// Close gracefully shuts down the underlying HTTP server.
func (c *Component) Close(ctx context.Context) error {
	return c.server.Close(ctx)
}

// CheckHealth reports whether the server still holds its listener.
func (c *Component) CheckHealth(ctx context.Context) (bool, error) {
	return c.server.Serving(), nil
}

// Server returns the wrapped Server.
func (c *Component) Server() *Server {
	return c.server
}
