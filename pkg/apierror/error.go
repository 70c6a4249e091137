package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies client-side failures.
type Kind string

const (
	// KindTransient means a candidate endpoint did not respond or returned a
	// non-2xx status. Recovered locally by trying the next candidate.
	KindTransient Kind = "TRANSIENT_NETWORK"

	// KindMalformed means the response body did not match the expected shape.
	// Never retried.
	KindMalformed Kind = "MALFORMED_RESPONSE"

	// KindValidation means caller-supplied arguments failed local checks.
	// Rejected before any network call.
	KindValidation Kind = "VALIDATION"

	// KindExhausted means every candidate and the hardcoded fallback failed.
	KindExhausted Kind = "EXHAUSTED_FALLBACK"
)

// Error is a structured client error.
type Error struct {
	Kind    Kind   // failure class
	Op      string // logical operation, e.g. "list items"
	Status  int    // HTTP status when one was received, else 0
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or the empty string when err is not a
// structured client error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// Transient creates a retryable network-level error.
func Transient(op string, status int, err error) *Error {
	return &Error{
		Kind:   KindTransient,
		Op:     op,
		Status: status,
		Err:    err,
	}
}

// Malformed creates a bad-response-shape error.
func Malformed(op, message string) *Error {
	return &Error{
		Kind:    KindMalformed,
		Op:      op,
		Message: message,
	}
}

// Validation creates a local argument-check error.
func Validation(op, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: message,
	}
}

// Exhausted creates an all-endpoints-failed error. The wrapped cause should
// be the first failure encountered, so diagnostics point at the primary
// misconfiguration rather than the last exhausted fallback.
func Exhausted(op string, first error) *Error {
	return &Error{
		Kind:    KindExhausted,
		Op:      op,
		Message: "all endpoints and the direct fallback failed",
		Err:     first,
	}
}
