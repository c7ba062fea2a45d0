package queries

import (
	"context"
	"database/sql"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackQueryHandler serves the customer's tracking view. The order
// row gives the statuses and the fallback position; the location cache
// overrides it with the rider's freshest report when present.
type GetOrderTrackQueryHandler struct {
	db    *gorm.DB
	cache ports.LocationCache
}

// NewGetOrderTrackQueryHandler creates a handler for tracking queries.
func NewGetOrderTrackQueryHandler(db *gorm.DB, cache ports.LocationCache) GetOrderTrackQueryHandler {
	return GetOrderTrackQueryHandler{db: db, cache: cache}
}

// Handle executes the tracking query.
func (h GetOrderTrackQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackQuery,
) (GetOrderTrackQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			delivery_status,
			rider_id,
			rider_lat,
			rider_lng,
			rider_location_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		id              uuid.UUID
		response        GetOrderTrackQueryResponse
		riderID         sql.NullString
		riderLat        sql.NullFloat64
		riderLng        sql.NullFloat64
		riderLocationAt sql.NullTime
	)

	err := row.Scan(&id, &response.Status, &response.DeliveryStatus,
		&riderID, &riderLat, &riderLng, &riderLocationAt)
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}
	response.OrderID = orderID

	if !riderID.Valid {
		return response, nil
	}

	assignedRider, err := kernel.UUIDFromString(riderID.String)
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	if pos, ok, cacheErr := h.cache.Get(ctx, assignedRider); cacheErr == nil && ok {
		response.Rider = &RiderTrack{
			Point:     pos.Point,
			Heading:   pos.Heading,
			SpeedKmh:  pos.SpeedKmh,
			UpdatedAt: pos.UpdatedAt,
		}
		return response, nil
	}

	// Cache miss, fall back to the position persisted with the order.
	if riderLat.Valid && riderLng.Valid {
		point, geoErr := kernel.NewGeoPoint(riderLat.Float64, riderLng.Float64)
		if geoErr != nil {
			return GetOrderTrackQueryResponse{}, geoErr
		}

		response.Rider = &RiderTrack{Point: point}
		if riderLocationAt.Valid {
			response.Rider.UpdatedAt = riderLocationAt.Time
		}
	}

	return response, nil
}
