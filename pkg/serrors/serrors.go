// Package serrors implements semantic errors: a kind sentinel that classifies
// the failure, an optional cause and an optional message. Packages declare
// their own kinds with NewKind and callers branch on them with errors.Is.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a marker interface implemented by every semantic error category
// created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind. Kinds are comparable sentinels.
func NewKind(name string) Kind { return kind{s: name} }

// Generic kinds shared across packages.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrBadRequest indicates the caller sent invalid data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates a state conflict.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal indicates an internal failure.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates the operation timed out.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates the service can not serve requests right now.
	ErrUnavailable = NewKind("UNAVAILABLE")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and an
// optional message.
//
// errors.Is and errors.As match either the kind or anything in the cause chain.
//
// Error() renders "<msg>: <cause>", "<msg>", "<cause>" or the kind name,
// depending on which parts are set.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with a formatted message and no cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error around cause with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only its kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
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

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the kind of e or is found in its cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As extracts either the kind or a value from the cause chain into target.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the kind associated with e.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to e.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause, if any.
func (e *Error) Cause() error { return e.err }

// KindOf returns the outermost semantic kind found in err's chain, or nil.
// A bare kind is its own kind.
func KindOf(err error) Kind {
	if k, ok := err.(Kind); ok {
		return k
	}
	var se *Error
	if errors.As(err, &se) {
		return se.kind
	}

	return nil
}

// statusKinds maps generic kinds onto HTTP status codes. Packages register
// their own kinds with RegisterStatus.
var statusKinds = map[Kind]int{ //nolint: gochecknoglobals
	ErrNotFound:    http.StatusNotFound,
	ErrBadRequest:  http.StatusBadRequest,
	ErrConflict:    http.StatusConflict,
	ErrInternal:    http.StatusInternalServerError,
	ErrTimeout:     http.StatusGatewayTimeout,
	ErrUnavailable: http.StatusServiceUnavailable,
}

// RegisterStatus associates a kind with an HTTP status code. It must only be
// called from package init functions.
func RegisterStatus(k Kind, status int) {
	statusKinds[k] = status
}

// HTTPStatus returns the status code for the first registered kind found in
// err's chain, defaulting to 500.
func HTTPStatus(err error) int {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if k, ok := cur.(Kind); ok {
			if status, ok := statusKinds[k]; ok {
				return status
			}

			continue
		}
		var se *Error
		if !errors.As(cur, &se) {
			break
		}
		if status, ok := statusKinds[se.kind]; ok {
			return status
		}
		cur = se
	}

	return http.StatusInternalServerError
}
