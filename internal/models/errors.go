package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is returned when an operation is not allowed in the current session state.
	ErrInvalidState = errors.New("operation not allowed in current session state")
)

// ValidationError describes a record that was rejected before commit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
