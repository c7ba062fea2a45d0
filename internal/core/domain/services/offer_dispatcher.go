package services

import (
	"errors"
	"math"
	"time"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/rider"
)

// ErrRiderNotFound is returned when no suitable rider is available for an
// order: none are on duty and free, all have already declined this order,
// or no candidate has a known position.
var ErrRiderNotFound = errors.New("rider not found")

// OfferDispatcher is a domain service that picks the next rider to offer an
// order to. Offers are strictly sequential: one rider at a time, nearest
// available first, skipping riders who already declined this order.
type OfferDispatcher struct{}

// NewOfferDispatcher creates a new OfferDispatcher instance.
func NewOfferDispatcher() OfferDispatcher {
	return OfferDispatcher{}
}

// Dispatch selects the best candidate among the given riders and records an
// offer on the order. The selected rider is returned so the caller can
// notify them; the rider aggregate itself is untouched until acceptance.
func (d OfferDispatcher) Dispatch(o *order.Order, riders []*rider.Rider, now time.Time) (*rider.Rider, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findBestRider(o, riders)
	if err != nil {
		return nil, err
	}

	if err := o.Offer(best.ID(), now); err != nil {
		return nil, err
	}

	return best, nil
}

// findBestRider returns the nearest available rider that has not already
// declined this order.
func (d OfferDispatcher) findBestRider(o *order.Order, riders []*rider.Rider) (*rider.Rider, error) {
	declined := make(map[string]bool)
	for _, entry := range o.AssignmentHistory() {
		if entry.Status() == order.AssignmentRejected {
			declined[entry.RiderID().String()] = true
		}
	}

	var (
		best         *rider.Rider
		bestDistance = math.MaxFloat64
	)

	for _, r := range riders {
		if err := r.Validate(); err != nil {
			return nil, err
		}

		if !r.IsAvailable() || declined[r.ID().String()] || r.Location() == nil {
			continue
		}

		distance, err := r.DistanceTo(o.Dropoff())
		if err != nil {
			return nil, err
		}

		if distance < bestDistance {
			bestDistance = distance
			best = r
		}
	}

	if best == nil {
		return nil, ErrRiderNotFound
	}

	return best, nil
}
