package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the transport can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindTooManyRequests
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error is the error type returned by every service. Message is safe to show
// to clients; Err carries the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
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

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// ValidationError reports malformed or missing input.
func ValidationError(msg string) error { return newError(KindValidation, msg) }

// ConflictError reports a uniqueness violation.
func ConflictError(msg string) error { return newError(KindConflict, msg) }

// UnauthenticatedError reports a missing or invalid session.
func UnauthenticatedError(msg string) error { return newError(KindUnauthenticated, msg) }

// ForbiddenError reports an authenticated caller acting on someone else's resource.
func ForbiddenError(msg string) error { return newError(KindForbidden, msg) }

// NotFoundError reports a referenced entity that does not exist.
func NotFoundError(msg string) error { return newError(KindNotFound, msg) }

// TooManyRequestsError reports a throttled caller.
func TooManyRequestsError(msg string) error { return newError(KindTooManyRequests, msg) }

// InternalError wraps an unexpected failure. The message shown to clients is generic.
func InternalError(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err; anything that is not an *Error is internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal Server Error"
}
