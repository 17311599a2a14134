package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a payment status change would move
// a payment out of a terminal state. Once approved or rejected, a payment
// stays that way; households re-submit instead.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError describes a malformed field on a submitted record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
