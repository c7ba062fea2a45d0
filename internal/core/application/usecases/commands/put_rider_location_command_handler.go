package commands

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
)

// PutRiderLocationCommandHandler stores a rider's latest position. The rider
// aggregate and the active order keep the durable copy; the cache serves the
// customer's live tracking view.
type PutRiderLocationCommandHandler struct {
	uowFactory UoWFactory
	cache      ports.LocationCache
}

// NewPutRiderLocationCommandHandler creates a handler for location reports.
func NewPutRiderLocationCommandHandler(uowFactory UoWFactory, cache ports.LocationCache) PutRiderLocationCommandHandler {
	return PutRiderLocationCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

// Handle processes the location report.
func (h *PutRiderLocationCommandHandler) Handle(ctx context.Context, cmd PutRiderLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	lat, lng := cmd.Point()
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	if err = r.UpdateLocation(point, cmd.RecordedAt()); err != nil {
		return err
	}

	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	// Mirror onto the active order so its track survives the cache TTL.
	if activeOrderID := r.ActiveOrderID(); activeOrderID != nil {
		orderRepo := uow.OrderRepository()
		aggregate, err := orderRepo.Get(ctx, *activeOrderID)
		if err != nil {
			return err
		}

		actor := order.Actor{ID: cmd.RiderID(), Role: order.RoleRider}
		if err = aggregate.RecordRiderLocation(actor, point, cmd.RecordedAt()); err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Set(ctx, cmd.RiderID(), ports.RiderPosition{
		Point:     point,
		Heading:   cmd.Heading(),
		SpeedKmh:  cmd.SpeedKmh(),
		UpdatedAt: cmd.RecordedAt(),
	})

	return nil
}
