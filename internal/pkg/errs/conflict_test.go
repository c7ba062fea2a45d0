package errs_test

import (
	"errors"
	"testing"

	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateConflictError(t *testing.T) {
	t.Run("NewStateConflictError", func(t *testing.T) {
		err := errs.NewStateConflictError("order", "in_transit", "cancelled")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "in_transit", err.Expected)
		assert.Equal(t, "cancelled", err.Actual)
		require.NoError(t, err.Cause)
		assert.Equal(t, "state conflict: order is cancelled, expected in_transit", err.Error())
		assert.Equal(t, errs.ErrStateConflict, err.Unwrap())
	})

	t.Run("NewStateConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("concurrent update")
		err := errs.NewStateConflictErrorWithCause("order", "arrived", "delivered", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"state conflict: order is delivered, expected arrived (cause: concurrent update)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestNotAuthorizedError(t *testing.T) {
	t.Run("NewNotAuthorizedError", func(t *testing.T) {
		err := errs.NewNotAuthorizedError("customer", "pack order")

		assert.Equal(t, "customer", err.Role)
		assert.Equal(t, "pack order", err.Action)
		assert.Equal(t, "not authorized: customer cannot pack order", err.Error())
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("not authorized is not a state conflict", func(t *testing.T) {
		err := errs.NewNotAuthorizedError("rider", "confirm order")
		require.NotErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestRiderNotAssignedError(t *testing.T) {
	err := errs.NewRiderNotAssignedError("rider-1", "order-9")

	assert.Equal(t, "rider-1", err.RiderID)
	assert.Equal(t, "order-9", err.OrderID)
	assert.Equal(t, "rider is not assigned: rider is: rider-1, order is: order-9", err.Error())
	require.ErrorIs(t, err, errs.ErrRiderNotAssigned)
	require.NotErrorIs(t, err, errs.ErrNotAuthorized)
}
