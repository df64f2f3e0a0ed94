package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsAreDistinct(t *testing.T) {
	kinds := []error{
		ErrNotFound, ErrValidation, ErrInsufficientInventory,
		ErrInvalidState, ErrConflict, ErrStorageUnavailable,
	}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	err := NotFound("rental", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "rental 42")

	err = InsufficientInventory(3)
	assert.True(t, errors.Is(err, ErrInsufficientInventory))
	assert.Contains(t, err.Error(), "only 3 units available")

	err = fmt.Errorf("outer: %w", InvalidState("rental is not active"))
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestStorageWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.Contains(t, err.Error(), "connection refused")

	assert.NoError(t, Storage(nil))
}
