package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its current status and assignment state.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAwaitingAssignment retrieves orders ready for dispatch: created,
	// confirmed or packed, with the delivery leg still unassigned.
	// The assignment job offers each of them to a candidate rider.
	GetAllAwaitingAssignment(ctx context.Context) ([]*order.Order, error)

	// GetAllActiveByRider retrieves the orders a rider is currently working:
	// delivery leg assigned through arrived. Feeds the rider's route screen.
	GetAllActiveByRider(ctx context.Context, riderID kernel.UUID) ([]*order.Order, error)
}
