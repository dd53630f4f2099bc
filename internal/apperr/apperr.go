// Package apperr defines the error kinds the domain services return and the
// HTTP status each maps to. Handlers match with errors.As instead of
// comparing message strings.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a domain error.
type Kind int

const (
	// Validation: missing/empty required field, non-positive duration,
	// timestamp outside bounds.
	Validation Kind = iota
	// InvalidReference: a foreign key points at a missing or cross-tenant
	// record.
	InvalidReference
	// InvalidTransition: a status change attempted from a disallowed state.
	InvalidTransition
	// AlreadyFinalized: approve/request-changes against APPROVED or
	// DELIVERED.
	AlreadyFinalized
	// MultiProjectSelection: invoice creation from entries spanning more
	// than one project.
	MultiProjectSelection
	// Conflict: optimistic check or unique constraint lost a race; retryable.
	Conflict
	// NotFound: entity id does not resolve.
	NotFound
	// Forbidden: the actor is not allowed to perform the action.
	Forbidden
)

// Error is a classified domain error.
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

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or returns (0, false) when err is not
// a classified error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// HTTPStatus maps an error to the status code the API responds with.
// Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch kind {
	case Validation, MultiProjectSelection:
		return fiber.StatusBadRequest
	case InvalidReference:
		return fiber.StatusUnprocessableEntity
	case InvalidTransition, AlreadyFinalized, Conflict:
		return fiber.StatusConflict
	case NotFound:
		return fiber.StatusNotFound
	case Forbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
