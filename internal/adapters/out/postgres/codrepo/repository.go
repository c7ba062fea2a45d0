package codrepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/cod"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCodRepository implements CodRepository using GORM.
type GormCodRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCodRepository creates a new GORM COD collection repository.
func NewGormCodRepository(db *gorm.DB, tracker aggregateTracker) *GormCodRepository {
	return &GormCodRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new collection to the database. The unique index on
// (order_id, idempotency_key) rejects a concurrent duplicate the
// GetByIdempotencyKey read missed.
func (r *GormCodRepository) Add(ctx context.Context, collection *cod.Collection) error {
	if err := collection.Validate(); err != nil {
		return err
	}

	dto := fromDomain(collection)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(collection.ID(), collection)
	return nil
}

// GetByIdempotencyKey looks up a collection by its retry key within an order.
// Absence is a normal outcome and returns (nil, nil).
func (r *GormCodRepository) GetByIdempotencyKey(
	ctx context.Context, orderID kernel.UUID, key string,
) (*cod.Collection, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errs.NewValueIsRequiredError("idempotency key")
	}

	var dto CollectionDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND idempotency_key = ?", orderID.Bytes(), key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder returns the collection recorded for the order, or (nil, nil)
// when nothing has been collected yet.
func (r *GormCodRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*cod.Collection, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto CollectionDTO
	err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toDomain(dto)
}
