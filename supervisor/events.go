package supervisor

import "sync"

// EventKind identifies a lifecycle event emitted by a Supervisor.
type EventKind string

// Status events carry no component name; their kind mirrors the status value.
const (
	// EventPending is never emitted: the supervisor is constructed
	// already pending, before any subscriber can attach. It exists so
	// every Status value has a matching event kind.
	EventPending EventKind = "pending"

	EventStarting EventKind = "starting"
	EventRunning  EventKind = "running"
	EventClosing  EventKind = "closing"
	EventClosed   EventKind = "closed"
)

// EventHealthChecked is emitted after every completed health-check cycle,
// whether or not any component was restarted.
const EventHealthChecked EventKind = "healthChecked"

// Component events carry the component's display name.
const (
	EventComponentStarted    EventKind = "componentStarted"
	EventComponentClosing    EventKind = "componentClosing"
	EventComponentClosed     EventKind = "componentClosed"
	EventComponentRestarting EventKind = "componentRestarting"
	EventComponentRestarted  EventKind = "componentRestarted"
)

// Event is a single lifecycle notification.
type Event struct {
	Kind EventKind
	// Component is the display name for component events, empty otherwise.
	Component string
}

// Handler receives lifecycle events. Handlers run synchronously on the
// goroutine that emits the event, in subscription order; a slow handler
// delays the phase that emitted it.
type Handler func(Event)

// emitter is the supervisor's in-process event bus.
type emitter struct {
	mu     sync.RWMutex
	byKind map[EventKind][]Handler
	all    []Handler
}

func newEmitter() *emitter {
	return &emitter{byKind: make(map[EventKind][]Handler)}
}

func (e *emitter) on(kind EventKind, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byKind[kind] = append(e.byKind[kind], h)
}

func (e *emitter) onAll(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.all = append(e.all, h)
}

func (e *emitter) emit(ev Event) {
	e.mu.RLock()
	kindHandlers := e.byKind[ev.Kind]
	allHandlers := e.all
	e.mu.RUnlock()

	for _, h := range kindHandlers {
		h(ev)
	}
	for _, h := range allHandlers {
		h(ev)
	}
}

// statusEvent maps a status to its event kind; the names coincide.
func statusEvent(s Status) Event {
	return Event{Kind: EventKind(s)}
}
