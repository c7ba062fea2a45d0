// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetActiveRouteQueryIsNotConstructed = errors.New(
	"GetActiveRouteQuery must be created via NewGetActiveRouteQuery constructor",
)

// GetActiveRouteQuery retrieves the orders a rider is currently working.
// The rider app polls this to decide whether location reporting should be
// on: an empty route means no order is active and nothing is sent.
type GetActiveRouteQuery struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveRouteQuery creates a query for a rider's active route.
func NewGetActiveRouteQuery(riderID kernel.UUID) (GetActiveRouteQuery, error) {
	q := GetActiveRouteQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setRiderID(riderID); err != nil {
		return GetActiveRouteQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRouteQueryIsNotConstructed)
}

// RiderID returns whose route to fetch.
func (q GetActiveRouteQuery) RiderID() kernel.UUID {
	return q.riderID
}

func (q *GetActiveRouteQuery) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	q.riderID = riderID
	return nil
}

// GetActiveRouteQueryResponse is one active order on the rider's route.
type GetActiveRouteQueryResponse struct {
	OrderID        kernel.UUID
	Dropoff        kernel.GeoPoint
	Status         string
	DeliveryStatus string
	PaymentMethod  string
	TotalAmount    int64
}
