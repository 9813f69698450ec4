// Package apperror defines the typed errors application handlers return to
// the transport layer.
package apperror

import (
	"errors"
	"fmt"
)

type Type int

const (
	Internal Type = iota
	NotFound
	BadRequest
	Conflict
	Unauthorized
	Forbidden
)

func (t Type) String() string {
	switch t {
	case NotFound:
		return "NOT_FOUND"
	case BadRequest:
		return "BAD_REQUEST"
	case Conflict:
		return "CONFLICT"
	case Unauthorized:
		return "UNAUTHORIZED"
	case Forbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// Error is a client-facing failure. ErrorType is an optional machine readable
// code such as VEHICLE_ALREADY_PARKED.
type Error struct {
	Type      Type
	Message   string
	ErrorType string
	Details   []string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithCode sets ErrorType and returns e.
func (e *Error) WithCode(code string) *Error {
	e.ErrorType = code
	return e
}

// WithDetails appends detail lines and returns e.
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

func New(t Type, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

func Wrap(t Type, err error, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewNotFound(format string, args ...any) *Error { return New(NotFound, format, args...) }

func NewBadRequest(format string, args ...any) *Error { return New(BadRequest, format, args...) }

func NewConflict(format string, args ...any) *Error { return New(Conflict, format, args...) }

func NewUnauthorized(format string, args ...any) *Error { return New(Unauthorized, format, args...) }

func NewForbidden(format string, args ...any) *Error { return New(Forbidden, format, args...) }

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// TypeOf returns the Type of the first *Error in err's chain, or Internal.
func TypeOf(err error) Type {
	if ae, ok := As(err); ok {
		return ae.Type
	}
	return Internal
}

// IsClient reports whether err is a caller mistake that retrying will not fix.
func IsClient(err error) bool {
	switch TypeOf(err) {
	case NotFound, BadRequest, Conflict, Unauthorized, Forbidden:
		return true
	}
	return false
}
