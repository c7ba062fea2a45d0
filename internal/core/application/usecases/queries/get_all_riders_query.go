package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetAllRidersQueryIsNotConstructed = errors.New(
	"GetAllRidersQuery must be created via NewGetAllRidersQuery constructor",
)

// GetAllRidersQuery retrieves every rider with their duty status and last
// known position, for the dispatch monitoring view.
type GetAllRidersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllRidersQuery creates a query to retrieve all riders.
func NewGetAllRidersQuery() GetAllRidersQuery {
	return GetAllRidersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllRidersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllRidersQueryIsNotConstructed)
}

// GetAllRidersQueryResponse represents one rider in the read model.
// Location is nil until the rider's first report.
type GetAllRidersQueryResponse struct {
	ID       kernel.UUID
	Name     string
	Vehicle  string
	Duty     string
	Location *kernel.GeoPoint
}
