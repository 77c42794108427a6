// Package domainerrors carries transport-agnostic error codes from services to
// the HTTP boundary. Services return these; httputil.WriteError maps them to
// status codes and JSON envelopes.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, client-facing error identifier.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeValidation Code = "validation_error"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal_error"
)

// Error is a domain error with a code and a human readable message.
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

// New creates a domain error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// As extracts the first domain error in the chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}
