package ports

import (
	"context"

	"lastmile/internal/core/domain/model/cod"
	"lastmile/internal/core/domain/model/kernel"
)

// CodRepository defines the persistence contract for COD collections.
// Collections are append-only; there is no update.
type CodRepository interface {
	// Add persists a new collection. The pair (order, idempotency key) is
	// unique at the storage level.
	Add(ctx context.Context, aggregate *cod.Collection) error

	// GetByIdempotencyKey retrieves the collection previously recorded for
	// the order under the given key, if any. A retried submission finds its
	// earlier entry here and is acknowledged without booking again.
	GetByIdempotencyKey(ctx context.Context, orderID kernel.UUID, key string) (*cod.Collection, error)

	// GetByOrder retrieves the collection recorded for the order, if any.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*cod.Collection, error)
}
