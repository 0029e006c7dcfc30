// Package errors provides unified error handling for lifekit.
// It implements structured error types with machine-readable codes
// and retryable detection.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// --- Common Error Constructors ---

// IllegalState creates a new AppError for an operation invoked in a
// lifecycle state that does not permit it.
func IllegalState(operation, state string) *AppError {
	return &AppError{
		Code:      ErrCodeIllegalState,
		Message:   fmt.Sprintf("cannot %s while %s", operation, state),
		Retryable: false,
		Details:   map[string]any{"operation": operation, "state": state},
	}
}

// StartFailed creates a new AppError for a component that failed to start.
func StartFailed(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStartFailed, Message: fmt.Sprintf("component %s failed to start", name),
		Retryable: true, Cause: cause,
		Details: map[string]any{"component": name},
	}
}

// CloseFailed creates a new AppError for a component that failed to close.
func CloseFailed(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCloseFailed, Message: fmt.Sprintf("component %s failed to close", name),
		Retryable: false, Cause: cause,
		Details: map[string]any{"component": name},
	}
}

// RestartFailed creates a new AppError for a component whose recovery
// attempt failed.
func RestartFailed(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRestartFailed, Message: fmt.Sprintf("component %s failed to restart", name),
		Retryable: true, Cause: cause,
		Details: map[string]any{"component": name},
	}
}

// Timeout creates a new AppError for an operation that exceeded its deadline.
func Timeout(operation string, deadline time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s exceeded %s deadline", operation, deadline),
		Retryable: true,
		Details:   map[string]any{"operation": operation, "timeout": deadline.String()},
	}
}

// InvalidConfig creates a new AppError for invalid configuration.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid config: %s", reason),
		Retryable: false, Details: details,
	}
}
