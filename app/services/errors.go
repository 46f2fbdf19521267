package services

import "fmt"

// Kind classifies a service failure so the request boundary can pick an
// HTTP status without string-matching messages.
type Kind string

const (
	// KindNotFound means the requested resource does not exist
	// (empty cart view, missing item, no active line to update).
	KindNotFound Kind = "not_found"

	// KindInvalidState means the request is well-formed but the current
	// state forbids it (placing an order over an empty cart).
	KindInvalidState Kind = "invalid_state"

	// KindInternal covers storage and other infrastructure failures.
	KindInternal Kind = "internal"
)

// Error is the failure type every service method returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidState builds a KindInvalidState error.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Internal wraps an infrastructure failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// anything that is not a service error.
func KindOf(err error) Kind {
	if se, ok := err.(*Error); ok {
		return se.Kind
	}
	return KindInternal
}
