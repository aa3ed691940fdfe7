package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// CodeTimeout indicates a bounded wait elapsed before an item arrived.
	CodeTimeout ErrorCode = "TIMEOUT"
	// CodeDisconnected indicates the underlying source is permanently exhausted.
	CodeDisconnected ErrorCode = "DISCONNECTED"
	// CodeSpawnFailed indicates the relay's execution unit could not be started.
	CodeSpawnFailed ErrorCode = "SPAWN_FAILED"
)

var retryableCodes = map[ErrorCode]bool{
	CodeTimeout:      true,
	CodeDisconnected: false,
	CodeSpawnFailed:  false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
