package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalid
	KindConflict
	KindUpstream
)

// Error carries a kind plus a human-readable message suitable for clients
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing user, photo or message
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden reports a caller identity that does not match the resource owner
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Invalid reports an invariant violation or malformed input
func Invalid(message string) *Error {
	return &Error{Kind: KindInvalid, Message: message}
}

// Conflict reports a duplicate where at most one row may exist
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upstream reports a failure of the external image host
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Internal reports a persistence or other unexpected failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf extracts the client-facing message from err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
