package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsUnwrapToSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{NotFound("variant", "SKU-1"), ErrNotFound},
		{InvalidState("request", "abc", "not pending"), ErrInvalidState},
		{Conflict("SKU", "SKU-1"), ErrConflict},
		{InsufficientStock("SKU-1", 2, 5), ErrInsufficientStock},
		{Validation("quantity must be positive"), ErrValidation},
	}
	for _, tc := range cases {
		assert.ErrorIs(t, tc.err, tc.sentinel, tc.err.Error())
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("approve request: %w", InsufficientStock("SKU-9", 1, 4))
	assert.ErrorIs(t, wrapped, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(wrapped, &stockErr))
	assert.Equal(t, "SKU-9", stockErr.SKU)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "variant SKU-1 not found", NotFound("variant", "SKU-1").Error())
	assert.Equal(t, "SKU 'SKU-1' already exists", Conflict("SKU", "SKU-1").Error())
	assert.Equal(t,
		"insufficient stock for SKU SKU-1: available 2, requested 5",
		InsufficientStock("SKU-1", 2, 5).Error())
}
