package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/lifekit/component"
)

// Recorder collects lifecycle call labels in order. Safe for use from
// the supervisor's health-loop goroutine and the test goroutine.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Record appends a label.
func (r *Recorder) Record(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, label)
}

// Events returns a copy of the recorded labels.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many recorded labels equal the given one.
func (r *Recorder) Count(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev == label {
			n++
		}
	}
	return n
}

// Fake is a minimal component with no health capability: always treated
// as healthy by the supervisor. Start/Close failures are scriptable.
type Fake struct {
	name string
	rec  *Recorder

	StartErr error
	CloseErr error
}

var _ component.Component = (*Fake)(nil)

// NewFake creates a basic fake component recording into rec.
func NewFake(name string, rec *Recorder) *Fake {
	return &Fake{name: name, rec: rec}
}

func (f *Fake) Name() string { return f.name }

func (f *Fake) Start(ctx context.Context) error {
	f.rec.Record("start:" + f.name)
	return f.StartErr
}

func (f *Fake) Close(ctx context.Context) error {
	f.rec.Record("close:" + f.name)
	return f.CloseErr
}

// Checked is a fake component with a health probe. It starts healthy;
// tests flip it with SetHealthy. A successful Start marks it healthy
// again, which models the supervisor's fallback recovery path.
type Checked struct {
	Fake
	mu       sync.Mutex
	healthy  bool
	CheckErr error
}

var _ component.HealthChecker = (*Checked)(nil)

// NewChecked creates a health-checked fake component.
func NewChecked(name string, rec *Recorder) *Checked {
	return &Checked{Fake: Fake{name: name, rec: rec}, healthy: true}
}

// SetHealthy scripts the next health-check results.
func (c *Checked) SetHealthy(healthy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = healthy
}

func (c *Checked) Start(ctx context.Context) error {
	err := c.Fake.Start(ctx)
	if err == nil {
		c.SetHealthy(true)
	}
	return err
}

func (c *Checked) CheckHealth(ctx context.Context) (bool, error) {
	c.rec.Record("check:" + c.name)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy, c.CheckErr
}

// Restartable is a health-checked fake with a targeted recovery
// operation. A successful Restart marks it healthy again.
type Restartable struct {
	Checked
	RestartErr error
}

var _ component.Restarter = (*Restartable)(nil)

// NewRestartable creates a restartable fake component.
func NewRestartable(name string, rec *Recorder) *Restartable {
	return &Restartable{Checked: Checked{Fake: Fake{name: name, rec: rec}, healthy: true}}
}

func (r *Restartable) Restart(ctx context.Context) error {
	r.rec.Record("restart:" + r.name)
	if r.RestartErr != nil {
		return r.RestartErr
	}
	r.SetHealthy(true)
	return nil
}

// Parent is a composite component supervising two-or-more children
// through a component.Group: it starts them in registration order
// inside its own Start and closes them in reverse inside its own Close.
type Parent struct {
	component.Group
	name string
	rec  *Recorder
}

var _ component.Component = (*Parent)(nil)

// NewParent creates a composite fake with the given children registered
// in order.
func NewParent(name string, rec *Recorder, children ...component.Component) (*Parent, error) {
	p := &Parent{name: name, rec: rec}
	for _, c := range children {
		if err := p.RegisterChild(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Parent) Name() string { return p.name }

func (p *Parent) Start(ctx context.Context) error {
	p.rec.Record("start-begin:" + p.name)
	if err := p.StartChildren(ctx); err != nil {
		return err
	}
	p.rec.Record("start-end:" + p.name)
	return nil
}

func (p *Parent) Close(ctx context.Context) error {
	p.rec.Record("close-begin:" + p.name)
	if err := p.CloseChildren(ctx); err != nil {
		return err
	}
	p.rec.Record("close-end:" + p.name)
	return nil
}
