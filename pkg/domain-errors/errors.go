// Package domainerrors defines the error taxonomy shared by services and transports.
//
// Stores return pkg/platform/sentinel errors; services translate them into a
// coded *Error so the HTTP layer can map a failure to a status without knowing
// where it came from.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies an error class. Codes are stable and appear in API responses.
type Code string

const (
	// NotFound
	CodeNotFound Code = "not_found"

	// PermissionDenied
	CodeForbidden    Code = "forbidden"
	CodeUnauthorized Code = "unauthorized"

	// RateLimited
	CodeRateLimited Code = "rate_limited"

	// ValidationError
	CodeValidation   Code = "validation_error"
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"

	// Conflict on concurrent or duplicate writes.
	CodeConflict Code = "conflict"

	// InternalError
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
)

// Error is a coded domain error. Message is safe to show to API clients
// except for internal codes.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// As extracts the outermost domain error from an error chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error in the chain has code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the outermost domain error, or CodeInternal for
// anything that is not a domain error.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}
