package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// CancelOrderCommandHandler terminates an order and, when a rider was
// already carrying it, frees that rider in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory UoWFactory, publisher ports.OrderEventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	assignedRider := aggregate.Rider()

	if err = aggregate.Cancel(cmd.Actor(), cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if assignedRider != nil {
		riderRepo := uow.RiderRepository()
		r, err := riderRepo.Get(ctx, *assignedRider)
		if err != nil {
			return err
		}

		if err = r.CompleteOrder(aggregate.ID()); err != nil {
			return err
		}

		if err = riderRepo.Update(ctx, r); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishStatusChanged(ctx, aggregate)

	return nil
}
