package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

// RiderPosition is a rider's live position as served to tracking clients.
type RiderPosition struct {
	Point     kernel.GeoPoint
	Heading   float64
	SpeedKmh  float64
	UpdatedAt time.Time
}

// LocationCache holds each rider's latest position with a short TTL.
// Tracking reads hit the cache instead of the orders table; a missing entry
// means the rider has not reported recently.
type LocationCache interface {
	Set(ctx context.Context, riderID kernel.UUID, pos RiderPosition) error

	// Get returns the rider's latest position. The bool is false when the
	// rider has no fresh entry.
	Get(ctx context.Context, riderID kernel.UUID) (RiderPosition, bool, error)
}
