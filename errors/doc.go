// Package errors defines the error taxonomy shared by the iterkit adapters.
// It implements a structured error type with machine-readable codes and
// retryable detection, plus sentinels usable with the standard errors.Is.
package errors
