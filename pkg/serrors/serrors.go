// Package serrors attaches a semantic kind to errors so that transport layers
// can map failures to status codes without knowing where they came from.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category. Only values created by NewKind
// implement it.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a comparable sentinel for a new category.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrNotFound is returned when a stored calculation does not exist.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized is returned for a missing or invalid bearer token.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrBadRequest is returned when the caller sent malformed input.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrUnprocessable is returned when well-formed input has no finite answer,
	// for example when quadrature diverges.
	ErrUnprocessable = NewKind("UNPROCESSABLE")
	// ErrInternal is the fallback kind.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout is returned when a computation exceeded its deadline.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable is returned when a dependency such as the job queue is
	// not configured or not reachable.
	ErrUnavailable = NewKind("UNAVAILABLE")
)

// Error carries a kind, an optional cause and an optional message.
// errors.Is and errors.As match both the kind and anything in the cause chain.
//
// The string form is "<msg>: <cause>", falling back to whichever of the two
// is set and finally to the kind itself.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a formatted message and no cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap returns an error of kind k wrapping err with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// Mark attaches k to err without adding a message.
func Mark(k Kind, err error) *Error { return &Error{kind: k, err: err} }

// KindOnly returns an error that carries nothing but k.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the kind of e, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message without the cause.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped error, or nil.
func (e *Error) Cause() error { return e.err }

// KindOf returns the first kind found in err's chain, or ErrInternal when
// there is none. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return nil
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return ErrInternal
}

// MessageOf returns the message of the outermost *Error in err's chain.
func MessageOf(err error) (string, bool) {
	var se *Error
	if !errors.As(err, &se) || se.msg == "" {
		return "", false
	}

	return se.msg, true
}
