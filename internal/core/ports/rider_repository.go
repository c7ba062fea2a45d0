// Package ports defines repository and collaborator interfaces for the
// delivery domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/rider"
)

// RiderRepository defines the persistence contract for rider aggregates.
type RiderRepository interface {
	// Add persists a new rider aggregate to storage.
	// The rider must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update persists changes to an existing rider aggregate.
	// The rider must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// GetAllAvailable retrieves riders that can receive a dispatch offer:
	// on duty with no active order.
	GetAllAvailable(ctx context.Context) ([]*rider.Rider, error)
}
