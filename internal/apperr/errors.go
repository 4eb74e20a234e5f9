package apperr

import (
	"errors"   // errors.As for kind lookup
	"fmt"      // Message formatting
	"net/http" // Status codes per kind
)

// Kind classifies an error for transport mapping
type Kind int

const (
	KindInternal       Kind = iota // Unexpected failure, details never reach the client
	KindValidation                 // Malformed or missing request fields
	KindAuthentication             // Missing/invalid token or wrong credentials
	KindAuthorization              // Insufficient role or deactivated account
	KindNotFound                   // Referenced entity does not exist
	KindConflict                   // Unique or referential constraint violated
)

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying its kind and a client-safe message
type Error struct {
	Kind    Kind   // Classification
	Message string // Client-facing message
	Details any    // Optional structured details (validation field errors)
	Err     error  // Underlying cause, logged but never serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails attaches structured details to the error
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// New builds an error of the given kind
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind around a cause
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// NotFound builds a 404 error
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Conflict builds a 409 error
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// Validation builds a 400 error
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// Unauthenticated builds a 401 error
func Unauthenticated(format string, args ...any) *Error {
	return New(KindAuthentication, format, args...)
}

// Forbidden builds a 403 error
func Forbidden(format string, args ...any) *Error {
	return New(KindAuthorization, format, args...)
}

// Internal wraps an unexpected failure
func Internal(err error) *Error {
	return Wrap(err, KindInternal, "Internal server error")
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for anything unclassified
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
