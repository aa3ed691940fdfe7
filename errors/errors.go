package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the structured error type returned by iterkit adapters.
type Error struct {
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
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports code equality, so errors.Is(err, ErrTimeout) matches any
// timeout-coded instance regardless of message or details.
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// Sentinels for use with the standard errors.Is.
var (
	// ErrTimeout is returned when a bounded wait elapses with no item.
	ErrTimeout = New(CodeTimeout, "timed out waiting for the next item")
	// ErrDisconnected is returned once the source is permanently exhausted.
	ErrDisconnected = New(CodeDisconnected, "source exhausted or disconnected")
)

// --- Constructors ---

// Timeout creates an Error for a bounded wait that elapsed during operation.
func Timeout(operation string) *Error {
	return New(CodeTimeout, "timed out waiting for the next item").
		WithDetail("operation", operation)
}

// Disconnected creates an Error for a permanently exhausted source.
func Disconnected(operation string) *Error {
	return New(CodeDisconnected, "source exhausted or disconnected").
		WithDetail("operation", operation)
}

// SpawnFailed creates an Error for a relay whose execution unit could not start.
func SpawnFailed(name string, cause error) *Error {
	e := New(CodeSpawnFailed, fmt.Sprintf("failed to spawn relay %q", name))
	e.Cause = cause
	return e
}

// --- Classification helpers ---

// IsTimeout returns true if err carries CodeTimeout.
func IsTimeout(err error) bool {
	return stderrors.Is(err, ErrTimeout)
}

// IsDisconnected returns true if err carries CodeDisconnected.
func IsDisconnected(err error) bool {
	return stderrors.Is(err, ErrDisconnected)
}

// IsSpawnFailed returns true if err carries CodeSpawnFailed.
func IsSpawnFailed(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == CodeSpawnFailed
}

// IsRetryable returns true if err is an Error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Retryable
}
