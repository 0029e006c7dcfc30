package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/lifekit/component"
	"github.com/kbukum/lifekit/logger"
)

var _ component.Component = (*Component)(nil)
var _ component.HealthChecker = (*Component)(nil)
var _ component.Restarter = (*Component)(nil)

// Component wraps Client and implements the full lifekit capability
// set: lifecycle, health probing via PING, and targeted recovery by
// re-dialing the pool.
type Component struct {
	mu     sync.Mutex
	client *Client
	cfg    Config
	log    *logger.Logger
}

// NewComponent creates a Redis component for supervisor registration.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Client returns the underlying *Client, or nil if not started.
func (c *Component) Client() *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Name returns the component display name.
func (c *Component) Name() string { return "redis" }

// Start initializes the Redis client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start ping: %w", err)
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	c.log.Info("Redis component started")
	return nil
}

// Close gracefully closes the Redis connection.
func (c *Component) Close(_ context.Context) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	c.log.Info("Redis component closing")
	return client.Close()
}

// CheckHealth probes the connection with PING.
func (c *Component) CheckHealth(ctx context.Context) (bool, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return false, nil
	}
	if err := client.Ping(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Restart recovers a failed connection by closing the old pool and
// dialing a new one with the same configuration.
func (c *Component) Restart(ctx context.Context) error {
	c.mu.Lock()
	old := c.client
	c.client = nil
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return c.Start(ctx)
}
