// Package codrepo provides data transfer objects and mapping functions for COD
// collection persistence. A unique index on (order_id, idempotency_key) backs
// the retry-safety the application layer relies on.
package codrepo

import (
	"time"

	"lastmile/internal/core/domain/model/cod"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CollectionDTO represents the database structure for persisting COD collections.
type CollectionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cod_order_key"`
	RiderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount         int64     `gorm:"not null"`
	Mode           string    `gorm:"type:varchar(8);not null"`
	IdempotencyKey string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_cod_order_key"`
	CollectedAt    time.Time `gorm:"not null"`
}

// TableName specifies the database table name for COD collection entities.
func (CollectionDTO) TableName() string {
	return "cod_collections"
}

// fromDomain converts a collection domain aggregate to its database representation.
func fromDomain(collection *cod.Collection) CollectionDTO {
	return CollectionDTO{
		ID:             collection.ID().Bytes(),
		OrderID:        collection.OrderID().Bytes(),
		RiderID:        collection.RiderID().Bytes(),
		Amount:         collection.Amount(),
		Mode:           collection.Mode(),
		IdempotencyKey: collection.IdempotencyKey(),
		CollectedAt:    collection.CollectedAt(),
	}
}

// toDomain converts a database DTO to a collection domain aggregate.
func toDomain(dto CollectionDTO) (*cod.Collection, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	riderID, err := kernel.UUIDFromBytes(dto.RiderID[:])
	if err != nil {
		return nil, err
	}

	return cod.RestoreCollection(id, orderID, riderID, dto.Amount, dto.Mode, dto.IdempotencyKey, dto.CollectedAt)
}
