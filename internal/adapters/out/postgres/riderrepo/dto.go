// Package riderrepo provides data transfer objects and mapping functions for rider persistence.
// This package implements the repository pattern for the rider domain aggregate, handling
// the conversion between domain entities and database representations.
package riderrepo

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO represents the database structure for persisting rider aggregates.
// Position columns are nullable: a rider has no coordinates until the first
// accepted location report.
type RiderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Phone         string    `gorm:"type:varchar(32);not null"`
	Vehicle       string    `gorm:"type:varchar(16);not null"`
	Duty          string    `gorm:"type:varchar(16);not null;index"`
	Lat           *float64
	Lng           *float64
	LocationAt    *time.Time
	ActiveOrderID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for rider entities.
// Overrides GORM's default naming convention to use "riders".
func (RiderDTO) TableName() string {
	return "riders"
}

// fromDomain converts a rider domain aggregate to its database representation.
func fromDomain(aggregate *rider.Rider) RiderDTO {
	dto := RiderDTO{
		ID:      aggregate.ID().Bytes(),
		Name:    aggregate.Name(),
		Phone:   aggregate.Phone(),
		Vehicle: string(aggregate.Vehicle()),
		Duty:    string(aggregate.Duty()),
	}

	if loc := aggregate.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}
	dto.LocationAt = aggregate.LocationAt()

	if orderID := aggregate.ActiveOrderID(); orderID != nil {
		raw := orderID.Bytes()
		dto.ActiveOrderID = &raw
	}

	return dto
}

// toDomain converts a database DTO to a rider domain aggregate.
// Reconstructs the complete aggregate including duty status, position and the
// active order using RestoreRider.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicle, err := rider.VehicleTypeFromString(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	duty, err := rider.DutyStatusFromString(dto.Duty)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if geoErr != nil {
			return nil, geoErr
		}
		location = &point
	}

	var activeOrderID *kernel.UUID
	if dto.ActiveOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		activeOrderID = &oID
	}

	return rider.RestoreRider(id, dto.Name, dto.Phone, vehicle, duty, location, dto.LocationAt, activeOrderID)
}
