package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lifecycle errors
const (
	// ErrCodeIllegalState indicates an operation was invoked in a
	// lifecycle state that does not permit it.
	ErrCodeIllegalState ErrorCode = "ILLEGAL_STATE"
	// ErrCodeStartFailed indicates a component failed to start.
	ErrCodeStartFailed ErrorCode = "COMPONENT_START_FAILED"
	// ErrCodeCloseFailed indicates a component failed to close cleanly.
	ErrCodeCloseFailed ErrorCode = "COMPONENT_CLOSE_FAILED"
	// ErrCodeRestartFailed indicates a component failed its recovery attempt.
	ErrCodeRestartFailed ErrorCode = "COMPONENT_RESTART_FAILED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates the configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeTimeout indicates an operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStartFailed:   true,
	ErrCodeRestartFailed: true,
	ErrCodeTimeout:       true,
}

// IsRetryableCode reports whether errors with the given code are
// worth retrying.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
