package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or contradictory input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing referenced record.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NotFound(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InsufficientInventoryError reports a failed stock-sufficiency check.
// Available and Requested are surfaced so the client can show both figures.
type InsufficientInventoryError struct {
	Available int
	Requested int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: available %d, requested %d", e.Available, e.Requested)
}

// InvalidTransitionError reports an illegal state-machine move.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// AccessDeniedError reports a base-scope or role violation.
type AccessDeniedError struct {
	Msg string
}

func (e *AccessDeniedError) Error() string { return e.Msg }

func AccessDenied(format string, args ...interface{}) error {
	return &AccessDeniedError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps a domain error to the status code the HTTP layer should use.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientInventoryError
		transition   *InvalidTransitionError
		denied       *AccessDeniedError
	)
	switch {
	case errors.As(err, &validation):
		return 400
	case errors.As(err, &notFound):
		return 404
	case errors.As(err, &insufficient):
		return 409
	case errors.As(err, &transition):
		return 409
	case errors.As(err, &denied):
		return 403
	default:
		return 500
	}
}
