package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for placing an order.
// Builds the aggregate from the submitted lines, persists it and publishes
// the initial status event.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderEventPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order placement command. COD orders come out ready for
// dispatch; prepaid ones wait for the payment confirmation.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	lat, lng := cmd.Dropoff()
	dropoff, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return err
	}

	items := make([]order.Item, 0, len(cmd.Items()))
	for _, line := range cmd.Items() {
		item, err := order.NewItem(line.Name, line.Quantity, line.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), dropoff, items,
		cmd.PaymentMethod(),
		order.Earnings{DeliveryFee: cmd.DeliveryFee()},
		time.Now().UTC(),
	)
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

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Best effort, the order is already committed.
	_ = h.publisher.PublishStatusChanged(ctx, aggregate)

	return nil
}
