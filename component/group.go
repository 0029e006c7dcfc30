package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/lifekit/errors"
	"github.com/kbukum/lifekit/logger"
)

// Group holds an ordered set of child components owned by a composite
// parent. The parent presents a single Start/Close pair to its own
// supervisor and delegates to StartChildren/CloseChildren internally,
// getting the same ordering guarantees as the top-level supervisor:
// children start in registration order and close in the exact reverse.
//
// A Group is a building block, not a runtime — it runs no goroutines
// and owns no health loop. Nesting composites gives recursive
// supervision trees of arbitrary depth.
type Group struct {
	mu       sync.Mutex
	children []Component
	started  bool
}

// RegisterChild appends a child to the ordered set. It fails with an
// illegal-state error once StartChildren has been called: the child
// sequence is immutable after startup begins.
func (g *Group) RegisterChild(c Component) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return errors.IllegalState("registerChild", "started")
	}
	g.children = append(g.children, c)
	return nil
}

// Children returns the children in registration order.
func (g *Group) Children() []Component {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Component, len(g.children))
	copy(out, g.children)
	return out
}

// StartChildren starts every child in registration order. The first
// failure propagates immediately; children after the failing one are
// not started.
func (g *Group) StartChildren(ctx context.Context) error {
	g.mu.Lock()
	g.started = true
	children := g.children
	g.mu.Unlock()

	for _, c := range children {
		logger.Debug("Starting child component", map[string]interface{}{
			"component": c.Name(),
		})
		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("start child %s: %w", c.Name(), err)
		}
	}
	return nil
}

// CloseChildren closes every child in the exact reverse of registration
// order. The first failure propagates immediately and aborts the
// remaining teardown.
func (g *Group) CloseChildren(ctx context.Context) error {
	g.mu.Lock()
	children := g.children
	g.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		logger.Debug("Closing child component", map[string]interface{}{
			"component": c.Name(),
		})
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("close child %s: %w", c.Name(), err)
		}
	}
	return nil
}
