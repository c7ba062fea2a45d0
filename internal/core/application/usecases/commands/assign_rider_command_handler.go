package commands

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// AssignRiderCommandHandler runs the dispatch pass. For every order awaiting
// assignment it picks the nearest available rider who has not declined the
// order yet and records a sequential offer. Orders with an outstanding offer
// and orders no rider can take are left for the next pass.
type AssignRiderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OfferDispatcher
	notifier   ports.Notifier
}

// NewAssignRiderCommandHandler creates a handler for dispatch passes.
func NewAssignRiderCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OfferDispatcher,
	notifier ports.Notifier,
) AssignRiderCommandHandler {
	return AssignRiderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// Handle processes one dispatch pass.
func (h *AssignRiderCommandHandler) Handle(ctx context.Context, cmd AssignRiderCommand) error {
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
	awaiting, err := orderRepo.GetAllAwaitingAssignment(ctx)
	if err != nil {
		return err
	}
	if len(awaiting) == 0 {
		return uow.Commit(ctx)
	}

	riders, err := uow.RiderRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var notifications []*order.Order
	offeredThisPass := make(map[string]bool)

	for _, aggregate := range awaiting {
		candidates := riders[:0:0]
		for _, r := range riders {
			if !offeredThisPass[r.ID().String()] {
				candidates = append(candidates, r)
			}
		}

		selected, err := h.dispatcher.Dispatch(aggregate, candidates, now)
		if err != nil {
			if errors.Is(err, services.ErrRiderNotFound) || errors.Is(err, order.ErrOfferAlreadyOpen) {
				continue
			}
			return err
		}

		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}

		offeredThisPass[selected.ID().String()] = true
		notifications = append(notifications, aggregate)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Offers are committed, notify outside the transaction.
	for _, aggregate := range notifications {
		if offer, open := aggregate.OpenOffer(); open {
			_ = h.notifier.NotifyOffer(ctx, aggregate.ID(), offer.RiderID())
		}
	}

	return nil
}
