package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// RespondOfferCommandHandler applies a rider's answer to an open offer.
// Acceptance binds the rider to the order in one transaction; a decline
// closes the offer and leaves the order for the next dispatch pass.
type RespondOfferCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
}

// NewRespondOfferCommandHandler creates a handler for offer responses.
func NewRespondOfferCommandHandler(uowFactory UoWFactory, publisher ports.OrderEventPublisher) RespondOfferCommandHandler {
	return RespondOfferCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the rider's answer.
func (h *RespondOfferCommandHandler) Handle(ctx context.Context, cmd RespondOfferCommand) error {
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

	if cmd.Accepted() {
		if err = aggregate.AcceptOffer(cmd.Actor(), now); err != nil {
			return err
		}

		riderRepo := uow.RiderRepository()
		r, err := riderRepo.Get(ctx, cmd.Actor().ID)
		if err != nil {
			return err
		}

		if err = r.TakeOrder(aggregate.ID()); err != nil {
			return err
		}

		if err = riderRepo.Update(ctx, r); err != nil {
			return err
		}
	} else {
		if err = aggregate.RejectOffer(cmd.Actor(), cmd.Reason(), now); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if cmd.Accepted() {
		_ = h.publisher.PublishStatusChanged(ctx, aggregate)
	}

	return nil
}
