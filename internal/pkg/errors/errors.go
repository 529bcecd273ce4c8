package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError rejects a request before any collaborator call is made.
// It is never retried and never wraps a downstream failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProcessingError wraps persistence or unexpected internal failures. The
// original cause is logged at the raise site before wrapping.
type ProcessingError struct {
	Op    string
	Cause error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

func NewProcessing(op string, cause error) error {
	return &ProcessingError{Op: op, Cause: cause}
}

func IsProcessing(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}
