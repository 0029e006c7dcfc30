package supervisor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/lifekit/errors"
	"github.com/kbukum/lifekit/logger"
	"github.com/kbukum/lifekit/testutil"
)

// collector records supervisor events in emission order.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *collector) count(kind EventKind, name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ev := range c.events {
		if ev.Kind == kind && ev.Component == name {
			n++
		}
	}
	return n
}

func newTestSupervisor(t *testing.T, interval time.Duration) (*Supervisor, *collector) {
	t.Helper()
	s := New(
		WithHealthCheckInterval(interval),
		WithLogger(logger.Nop()),
		WithExitFunc(func(int) {}),
	)
	col := &collector{}
	s.All(col.handle)
	return s, col
}

func TestNewStatusPending(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)
	if got := s.Status(); got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if s.ID() == "" {
		t.Error("expected non-empty supervisor id")
	}
}

func TestStartCloseOrdering(t *testing.T) {
	s, col := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}

	for _, name := range []string{"A", "B", "C"} {
		if err := s.Register(testutil.NewFake(name, rec)); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := s.Status(); got != StatusRunning {
		t.Fatalf("expected running, got %s", got)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := s.Status(); got != StatusClosed {
		t.Fatalf("expected closed, got %s", got)
	}

	want := []Event{
		{Kind: EventComponentStarted, Component: "A"},
		{Kind: EventComponentStarted, Component: "B"},
		{Kind: EventComponentStarted, Component: "C"},
		{Kind: EventComponentClosing, Component: "C"},
		{Kind: EventComponentClosed, Component: "C"},
		{Kind: EventComponentClosing, Component: "B"},
		{Kind: EventComponentClosed, Component: "B"},
		{Kind: EventComponentClosing, Component: "A"},
		{Kind: EventComponentClosed, Component: "A"},
	}

	var got []Event
	for _, ev := range col.all() {
		if ev.Component != "" {
			got = append(got, ev)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d component events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestStatusEvents(t *testing.T) {
	s, col := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}
	s.Register(testutil.NewFake("A", rec))

	s.Start(context.Background())
	s.Close(context.Background())

	var statuses []EventKind
	for _, ev := range col.all() {
		switch ev.Kind {
		case EventStarting, EventRunning, EventClosing, EventClosed:
			statuses = append(statuses, ev.Kind)
		}
	}
	want := []EventKind{EventStarting, EventRunning, EventClosing, EventClosed}
	if len(statuses) != len(want) {
		t.Fatalf("expected status events %v, got %v", want, statuses)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("expected status events %v, got %v", want, statuses)
		}
	}
}

func TestRegisterAfterStartFails(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}
	s.Register(testutil.NewFake("A", rec))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	err := s.Register(testutil.NewFake("late", rec))
	if !errors.IsCode(err, errors.ErrCodeIllegalState) {
		t.Fatalf("expected illegal-state error, got %v", err)
	}

	s.Close(context.Background())

	err = s.Register(testutil.NewFake("later", rec))
	if !errors.IsCode(err, errors.ErrCodeIllegalState) {
		t.Fatalf("expected illegal-state error after close, got %v", err)
	}
}

func TestStartTwiceFails(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}
	s.Register(testutil.NewFake("A", rec))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close(context.Background())

	if err := s.Start(context.Background()); !errors.IsCode(err, errors.ErrCodeIllegalState) {
		t.Fatalf("expected illegal-state error, got %v", err)
	}
}

func TestStartFailureNoRollback(t *testing.T) {
	s, col := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}

	s.Register(testutil.NewFake("A", rec))
	failing := testutil.NewFake("B", rec)
	failing.StartErr = fmt.Errorf("boom")
	s.Register(failing)
	s.Register(testutil.NewFake("C", rec))

	err := s.Start(context.Background())
	if !errors.IsCode(err, errors.ErrCodeStartFailed) {
		t.Fatalf("expected start-failed error, got %v", err)
	}
	if got := s.Status(); got != StatusStarting {
		t.Fatalf("expected status starting after failure, got %s", got)
	}

	// A started, C never attempted, nothing rolled back.
	if rec.Count("start:A") != 1 || rec.Count("start:C") != 0 {
		t.Errorf("unexpected start calls: %v", rec.Events())
	}
	if rec.Count("close:A") != 0 {
		t.Errorf("expected no rollback close, got %v", rec.Events())
	}
	if col.count(EventComponentStarted, "B") != 0 {
		t.Error("failing component must not emit componentStarted")
	}
}

func TestCloseWhileNotRunningFails(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)

	err := s.Close(context.Background())
	if !errors.IsCode(err, errors.ErrCodeIllegalState) {
		t.Fatalf("expected illegal-state error, got %v", err)
	}
}

// slowCloser delays its Close so a concurrent Close lands while closing.
type slowCloser struct {
	*testutil.Fake
	delay time.Duration
}

func (s *slowCloser) Close(ctx context.Context) error {
	time.Sleep(s.delay)
	return s.Fake.Close(ctx)
}

func TestConcurrentCloseCoalesces(t *testing.T) {
	s, col := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}

	s.Register(&slowCloser{Fake: testutil.NewFake("A", rec), delay: 10 * time.Millisecond})
	s.Register(testutil.NewFake("B", rec))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- s.Close(context.Background()) }()

	testutil.Eventually(t, time.Second, func() bool {
		return s.Status() == StatusClosing
	}, "first close did not begin")

	go func() { errCh <- s.Close(context.Background()) }()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Close %d: %v", i, err)
		}
		// Both callers observe completion only after closed.
		if got := s.Status(); got != StatusClosed {
			t.Fatalf("close returned before closed, status %s", got)
		}
	}

	// Exactly one shutdown sequence.
	for _, name := range []string{"A", "B"} {
		if n := rec.Count("close:" + name); n != 1 {
			t.Errorf("expected 1 close of %s, got %d", name, n)
		}
		if n := col.count(EventComponentClosed, name); n != 1 {
			t.Errorf("expected 1 componentClosed for %s, got %d", name, n)
		}
	}
}

func TestCloseFailureAbortsSequence(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}

	s.Register(testutil.NewFake("A", rec))
	failing := testutil.NewFake("B", rec)
	failing.CloseErr = fmt.Errorf("teardown failed")
	s.Register(failing)
	s.Register(testutil.NewFake("C", rec))

	s.Start(context.Background())

	err := s.Close(context.Background())
	if !errors.IsCode(err, errors.ErrCodeCloseFailed) {
		t.Fatalf("expected close-failed error, got %v", err)
	}
	if got := s.Status(); got != StatusClosing {
		t.Fatalf("expected status closing after failure, got %s", got)
	}

	// C closed first (reverse order), B failed, A untouched.
	if rec.Count("close:C") != 1 || rec.Count("close:B") != 1 || rec.Count("close:A") != 0 {
		t.Errorf("unexpected close calls: %v", rec.Events())
	}

	// A later close coalesces onto the stuck sequence and never
	// completes; the caller's context bounds the wait.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.Close(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNestedParentChildOrdering(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}

	parent, err := testutil.NewParent("parent", rec,
		testutil.NewFake("child1", rec),
		testutil.NewFake("child2", rec),
	)
	if err != nil {
		t.Fatalf("NewParent: %v", err)
	}
	s.Register(parent)

	s.Start(context.Background())
	s.Close(context.Background())

	want := []string{
		"start-begin:parent",
		"start:child1",
		"start:child2",
		"start-end:parent",
		"close-begin:parent",
		"close:child2",
		"close:child1",
		"close-end:parent",
	}
	got := rec.Events()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCloseAndExit(t *testing.T) {
	var code = -1
	s := New(
		WithHealthCheckInterval(time.Millisecond),
		WithLogger(logger.Nop()),
		WithExitFunc(func(c int) { code = c }),
	)
	rec := &testutil.Recorder{}
	s.Register(testutil.NewFake("A", rec))

	s.Start(context.Background())
	s.CloseAndExit(context.Background())

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if got := s.Status(); got != StatusClosed {
		t.Fatalf("expected closed, got %s", got)
	}
}

// hangingCloser blocks its Close until the shutdown context expires.
type hangingCloser struct {
	*testutil.Fake
}

func (h *hangingCloser) Close(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
		return h.Fake.Close(ctx)
	}
}

func TestCloseAndExitGracefulTimeout(t *testing.T) {
	var code = -1
	s := New(
		WithHealthCheckInterval(time.Millisecond),
		WithGracefulTimeout(5*time.Millisecond),
		WithLogger(logger.Nop()),
		WithExitFunc(func(c int) { code = c }),
	)
	rec := &testutil.Recorder{}
	s.Register(&hangingCloser{Fake: testutil.NewFake("hung", rec)})

	s.Start(context.Background())
	s.CloseAndExit(context.Background())

	if code != 1 {
		t.Fatalf("expected exit code 1 after timed-out shutdown, got %d", code)
	}
	if got := s.Status(); got != StatusClosing {
		t.Fatalf("expected status closing after aborted shutdown, got %s", got)
	}
}

func TestOnFiltersByKind(t *testing.T) {
	s, _ := newTestSupervisor(t, time.Millisecond)
	rec := &testutil.Recorder{}
	s.Register(testutil.NewFake("A", rec))

	var mu sync.Mutex
	var started []string
	s.On(EventComponentStarted, func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		started = append(started, ev.Component)
	})
	closedCh := make(chan struct{})
	s.On(EventClosed, func(Event) { close(closedCh) })

	s.Start(context.Background())
	s.Close(context.Background())

	select {
	case <-closedCh:
	default:
		t.Error("closed handler not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(started) != 1 || started[0] != "A" {
		t.Errorf("expected [A], got %v", started)
	}
}
