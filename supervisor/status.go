package supervisor

// Status represents the lifecycle state of a Supervisor.
// The state machine is strictly forward-moving:
//
//	pending → starting → running → closing → closed
type Status string

const (
	// StatusPending is the initial state; components may be registered.
	StatusPending Status = "pending"
	// StatusStarting means the startup sequence is in progress.
	StatusStarting Status = "starting"
	// StatusRunning means all components started and the health loop is active.
	StatusRunning Status = "running"
	// StatusClosing means the shutdown sequence is in progress.
	StatusClosing Status = "closing"
	// StatusClosed is the terminal state; the supervisor is not reusable.
	StatusClosed Status = "closed"
)
