// Package apperrors provides the typed domain error taxonomy.
//
// Every domain-rule violation surfaces as one of five kinds so the HTTP
// layer can map it to a status code without string matching. Unexpected
// infrastructure errors are wrapped with %w and fall through to 500.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindValidation indicates missing or invalid input.
	KindValidation Kind = iota + 1
	// KindNotFound indicates a referenced entity does not exist.
	KindNotFound
	// KindForbidden indicates the actor lacks the required role.
	KindForbidden
	// KindConflict indicates a conflicting write: duplicate membership,
	// round full, invite expired or exhausted.
	KindConflict
	// KindState indicates an operation invalid for the entity's current
	// state, e.g. approving a non-pending proof.
	KindState
)

// Error is a typed domain error.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Validation creates a validation error.
func Validation(msg string) *Error { return &Error{kind: KindValidation, msg: msg} }

// NotFound creates a not-found error.
func NotFound(msg string) *Error { return &Error{kind: KindNotFound, msg: msg} }

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error { return &Error{kind: KindForbidden, msg: msg} }

// Conflict creates a conflict error.
func Conflict(msg string) *Error { return &Error{kind: KindConflict, msg: msg} }

// State creates an invalid-state error.
func State(msg string) *Error { return &Error{kind: KindState, msg: msg} }

// Wrap attaches a cause to a domain error, preserving its kind.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

// KindOf extracts the kind from any error. Returns 0 if err is not a
// domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the HTTP layer should send.
// Non-domain errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict, KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
