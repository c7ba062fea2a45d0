package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// PackOrderCommandHandler marks an order packed so the assignment job can
// start offering it.
type PackOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewPackOrderCommandHandler creates a handler for packing orders.
func NewPackOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderEventPublisher) PackOrderCommandHandler {
	return PackOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the packing command.
func (h *PackOrderCommandHandler) Handle(ctx context.Context, cmd PackOrderCommand) error {
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

	if err = aggregate.Pack(cmd.Actor(), time.Now().UTC()); err != nil {
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
