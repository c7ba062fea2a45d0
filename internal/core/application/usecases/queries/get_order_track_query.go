package queries

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetOrderTrackQueryIsNotConstructed = errors.New(
	"GetOrderTrackQuery must be created via NewGetOrderTrackQuery constructor",
)

// GetOrderTrackQuery retrieves the customer's tracking view of an order:
// the current status plus the rider's live position when one is on the way.
type GetOrderTrackQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTrackQuery creates a query for an order's tracking view.
func NewGetOrderTrackQuery(orderID kernel.UUID) (GetOrderTrackQuery, error) {
	q := GetOrderTrackQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setOrderID(orderID); err != nil {
		return GetOrderTrackQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackQueryIsNotConstructed)
}

// OrderID returns which order to track.
func (q GetOrderTrackQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderTrackQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// RiderTrack is the rider's live position on the tracking view.
type RiderTrack struct {
	Point     kernel.GeoPoint
	Heading   float64
	SpeedKmh  float64
	UpdatedAt time.Time
}

// GetOrderTrackQueryResponse is the customer-facing tracking read model.
// Rider is nil until a rider accepts, and goes stale-free through the cache:
// when the cache has no fresh entry the last persisted position is used.
type GetOrderTrackQueryResponse struct {
	OrderID        kernel.UUID
	Status         string
	DeliveryStatus string
	Rider          *RiderTrack
}
