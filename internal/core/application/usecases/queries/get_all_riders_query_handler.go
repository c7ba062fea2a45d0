package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

type GetAllRidersQueryHandler interface {
	Handle(ctx context.Context, query GetAllRidersQuery) ([]GetAllRidersQueryResponse, error)
}

var _ GetAllRidersQueryHandler = &getAllRidersQueryHandler{}

type getAllRidersQueryHandler struct {
	db *gorm.DB
}

func NewGetAllRidersQueryHandler(db *gorm.DB) (GetAllRidersQueryHandler, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	return &getAllRidersQueryHandler{db: db}, nil
}

func (h *getAllRidersQueryHandler) Handle(
	ctx context.Context, query GetAllRidersQuery,
) ([]GetAllRidersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []struct {
		ID      uuid.UUID
		Name    string
		Vehicle string
		Duty    string
		Lat     sql.NullFloat64
		Lng     sql.NullFloat64
	}

	result := h.db.WithContext(ctx).Raw(
		`SELECT id, name, vehicle, duty, lat, lng FROM riders ORDER BY name`,
	).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	responses := make([]GetAllRidersQueryResponse, 0, len(rows))
	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}

		response := GetAllRidersQueryResponse{
			ID:      id,
			Name:    row.Name,
			Vehicle: row.Vehicle,
			Duty:    row.Duty,
		}
		if row.Lat.Valid && row.Lng.Valid {
			point, err := kernel.NewGeoPoint(row.Lat.Float64, row.Lng.Float64)
			if err != nil {
				return nil, err
			}
			response.Location = &point
		}

		responses = append(responses, response)
	}

	return responses, nil
}
