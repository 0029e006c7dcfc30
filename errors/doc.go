// Package errors defines the structured error types used across lifekit:
// AppError with machine-readable codes, cause chaining via Unwrap, and
// retryable classification.
//
// Lifecycle violations (register after start, close while not running)
// are reported as ILLEGAL_STATE errors. Component operation failures
// propagate with their original cause preserved so callers can inspect
// them with errors.Is/As.
package errors
