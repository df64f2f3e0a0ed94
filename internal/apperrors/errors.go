// Package apperrors defines the error kinds the ledger reports to callers.
// Every failure an operation can produce maps to exactly one of these kinds,
// so handlers can pick status codes without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap with context using Wrap/fmt.Errorf("%w") and test
// with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidState          = errors.New("invalid state for operation")
	ErrConflict              = errors.New("conflict")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
)

// NotFound reports a missing entity by name and id.
func NotFound(entity string, id int) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// Validation reports a bad input field.
func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// Validationf reports a bad input field with formatting.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// InsufficientInventory reports a stock shortfall.
func InsufficientInventory(available int) error {
	return fmt.Errorf("only %d units available: %w", available, ErrInsufficientInventory)
}

// InvalidState reports an operation attempted in the wrong lifecycle state.
func InvalidState(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidState)
}

// Conflict reports a unique-key collision.
func Conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConflict)
}

// Unauthorized reports a failed authentication or a missing credential.
func Unauthorized(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
}

// Storage wraps a low-level storage failure. The cause is preserved for
// logging but callers only see the kind.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
