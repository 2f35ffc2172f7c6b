// Package apperr carries the failure kinds the API reports to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of its message.
type Kind int

const (
	Unauthenticated Kind = iota
	NotFound
	InvalidInput
	Conflict
	UpstreamUnavailable
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "Unauthenticated"
	case NotFound:
		return "NotFound"
	case InvalidInput:
		return "InvalidInput"
	case Conflict:
		return "Conflict"
	case UpstreamUnavailable:
		return "UpstreamUnavailable"
	}
	return "Unknown"
}

// Error pairs a kind with a stable human-readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New creates an Error with the given kind and formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err. The second return value is false
// when err is not an *Error (an internal failure).
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
