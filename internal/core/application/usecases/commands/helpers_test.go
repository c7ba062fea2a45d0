package commands_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/rider"

	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func codOrder(t *testing.T) *order.Order {
	t.Helper()
	dropoff, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)
	item, err := order.NewItem("groceries", 1, 90000)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), dropoff,
		[]order.Item{item}, order.PaymentCOD, order.Earnings{DeliveryFee: 4000}, handlerNow)
	require.NoError(t, err)
	return o
}

func onDutyRider(t *testing.T) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(kernel.NewUUID(), "Ravi", "+919876543210", rider.VehicleBike)
	require.NoError(t, err)
	r.GoOnDuty()

	p, err := kernel.NewGeoPoint(12.9720, 77.5950)
	require.NoError(t, err)
	require.NoError(t, r.UpdateLocation(p, handlerNow))
	return r
}

// arrivedOrder walks a COD order to the rider's arrival at the door.
func arrivedOrder(t *testing.T, r *rider.Rider) *order.Order {
	t.Helper()
	o := codOrder(t)
	actor := order.Actor{ID: r.ID(), Role: order.RoleRider}

	require.NoError(t, o.Offer(r.ID(), handlerNow))
	require.NoError(t, o.AcceptOffer(actor, handlerNow))
	require.NoError(t, r.TakeOrder(o.ID()))
	require.NoError(t, o.Pickup(actor, handlerNow))
	require.NoError(t, o.StartTransit(actor, handlerNow))
	require.NoError(t, o.Arrive(actor, handlerNow))
	return o
}
