package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
)

// UpdateDeliveryStatusCommandHandler advances the delivery leg through its
// rider-reported milestones.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for milestone reports.
func NewUpdateDeliveryStatusCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderEventPublisher) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the milestone report.
func (h *UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	switch cmd.Milestone() {
	case order.DeliveryPickedUp:
		err = aggregate.Pickup(cmd.Actor(), now)
	case order.DeliveryInTransit:
		err = aggregate.StartTransit(cmd.Actor(), now)
	case order.DeliveryArrived:
		err = aggregate.Arrive(cmd.Actor(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishStatusChanged(ctx, aggregate)

	return nil
}
