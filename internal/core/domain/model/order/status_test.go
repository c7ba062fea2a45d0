package order_test

import (
	"testing"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := map[order.Status]string{
		order.StatusPending:   "pending",
		order.StatusCreated:   "created",
		order.StatusConfirmed: "confirmed",
		order.StatusPacked:    "packed",
		order.StatusAssigned:  "assigned",
		order.StatusPickedUp:  "picked_up",
		order.StatusInTransit: "in_transit",
		order.StatusArrived:   "arrived",
		order.StatusDelivered: "delivered",
		order.StatusCancelled: "cancelled",
		order.StatusFailed:    "failed",
		order.StatusUnknown:   "unknown",
		order.Status(99):      "unknown",
	}
	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
}

func TestStatusFromString(t *testing.T) {
	t.Run("round trips every valid status", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusPending, order.StatusCreated, order.StatusConfirmed,
			order.StatusPacked, order.StatusAssigned, order.StatusPickedUp,
			order.StatusInTransit, order.StatusArrived, order.StatusDelivered,
			order.StatusCancelled, order.StatusFailed,
		} {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		_, err := order.StatusFromString("teleported")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.StatusFromString("unknown")
		require.Error(t, err)
	})
}

func TestStatus_HappyPathChain(t *testing.T) {
	s := order.StatusPending

	s, err := s.MarkPaid()
	require.NoError(t, err)
	require.Equal(t, order.StatusCreated, s)

	s, err = s.Confirm()
	require.NoError(t, err)
	require.Equal(t, order.StatusConfirmed, s)

	s, err = s.Pack()
	require.NoError(t, err)
	require.Equal(t, order.StatusPacked, s)

	s, err = s.Assign()
	require.NoError(t, err)
	require.Equal(t, order.StatusAssigned, s)

	s, err = s.Pickup()
	require.NoError(t, err)
	require.Equal(t, order.StatusPickedUp, s)

	s, err = s.StartTransit()
	require.NoError(t, err)
	require.Equal(t, order.StatusInTransit, s)

	s, err = s.Arrive()
	require.NoError(t, err)
	require.Equal(t, order.StatusArrived, s)

	s, err = s.Deliver()
	require.NoError(t, err)
	require.Equal(t, order.StatusDelivered, s)
	assert.True(t, s.IsTerminal())
}

func TestStatus_InvalidTransitionsAreStateConflicts(t *testing.T) {
	t.Run("cannot pickup before assignment", func(t *testing.T) {
		_, err := order.StatusPacked.Pickup()
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("cannot deliver before arrival", func(t *testing.T) {
		_, err := order.StatusInTransit.Deliver()
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("cannot confirm twice", func(t *testing.T) {
		_, err := order.StatusConfirmed.Confirm()
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		for _, s := range []order.Status{order.StatusDelivered, order.StatusCancelled, order.StatusFailed} {
			_, err := s.Cancel()
			require.ErrorIs(t, err, errs.ErrStateConflict, "cancel from %s", s)
			_, err = s.Assign()
			require.ErrorIs(t, err, errs.ErrStateConflict, "assign from %s", s)
		}
	})
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("allowed up to in_transit", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusPending, order.StatusCreated, order.StatusConfirmed,
			order.StatusPacked, order.StatusAssigned, order.StatusPickedUp,
			order.StatusInTransit,
		} {
			got, err := s.Cancel()
			require.NoError(t, err, "cancel from %s", s)
			assert.Equal(t, order.StatusCancelled, got)
		}
	})

	t.Run("not allowed from arrived", func(t *testing.T) {
		_, err := order.StatusArrived.Cancel()
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestStatus_Fail(t *testing.T) {
	for _, s := range []order.Status{order.StatusInTransit, order.StatusArrived} {
		got, err := s.Fail()
		require.NoError(t, err, "fail from %s", s)
		assert.Equal(t, order.StatusFailed, got)
	}

	_, err := order.StatusAssigned.Fail()
	require.ErrorIs(t, err, errs.ErrStateConflict)
}

func TestDeliveryStatus(t *testing.T) {
	t.Run("string round trip", func(t *testing.T) {
		for _, d := range []order.DeliveryStatus{
			order.DeliveryUnassigned, order.DeliveryAssigned, order.DeliveryPickedUp,
			order.DeliveryInTransit, order.DeliveryArrived, order.DeliveryDelivered,
			order.DeliveryCancelled,
		} {
			parsed, err := order.DeliveryStatusFromString(d.String())
			require.NoError(t, err)
			assert.Equal(t, d, parsed)
		}
	})

	t.Run("active states", func(t *testing.T) {
		assert.False(t, order.DeliveryUnassigned.IsActive())
		assert.True(t, order.DeliveryAssigned.IsActive())
		assert.True(t, order.DeliveryArrived.IsActive())
		assert.False(t, order.DeliveryDelivered.IsActive())
		assert.False(t, order.DeliveryCancelled.IsActive())
	})
}
