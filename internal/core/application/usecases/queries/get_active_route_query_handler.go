package queries

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveRouteQueryHandler retrieves a rider's active orders from the
// database. Uses direct SQL for optimal read performance in the CQRS pattern.
type GetActiveRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveRouteQueryHandler creates a handler for active route queries.
// Requires a GORM database connection for query execution.
func NewGetActiveRouteQueryHandler(db *gorm.DB) GetActiveRouteQueryHandler {
	return GetActiveRouteQueryHandler{db: db}
}

// Handle executes the query. Returns the rider's orders whose delivery leg
// is assigned, picked up, in transit or arrived, oldest first.
func (h GetActiveRouteQueryHandler) Handle(
	ctx context.Context,
	query GetActiveRouteQuery,
) ([]GetActiveRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	route := make([]GetActiveRouteQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			dropoff_lat,
			dropoff_lng,
			status,
			delivery_status,
			payment_method,
			total_amount
		FROM orders
		WHERE rider_id = ?
		  AND delivery_status IN ('assigned', 'picked_up', 'in_transit', 'arrived')
		ORDER BY created_at
	`, query.RiderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetActiveRouteQueryResponse
		var id uuid.UUID
		var lat, lng float64

		err = rows.Scan(
			&id,
			&lat,
			&lng,
			&entry.Status,
			&entry.DeliveryStatus,
			&entry.PaymentMethod,
			&entry.TotalAmount,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.OrderID = orderID

		dropoff, geoErr := kernel.NewGeoPoint(lat, lng)
		if geoErr != nil {
			return nil, geoErr
		}
		entry.Dropoff = dropoff

		route = append(route, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return route, nil
}
