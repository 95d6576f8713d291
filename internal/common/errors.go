package common

import (
	"errors"
	"fmt"
)

// The three failure classes the panel distinguishes. Validation failures are
// caught before any remote call; state failures mean the sale lifecycle forbids
// the operation; store failures wrap whatever the persistence layer returned.

// ValidationError reports bad or missing input for a field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateError reports an operation not permitted in the entity's
// current lifecycle state.
type InvalidStateError struct {
	Entity string
	State  string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s in state %q", e.Op, e.Entity, e.State)
}

// NewInvalidStateError builds an InvalidStateError.
func NewInvalidStateError(entity, state, op string) error {
	return &InvalidStateError{Entity: entity, State: state, Op: op}
}

// StoreError wraps a failed or empty remote store call.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError for the named operation.
// Returns nil when err is nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// ErrActionInFlight is returned when an interactive action is rejected because
// the same control already has a call in flight.
var ErrActionInFlight = errors.New("action already in progress")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
