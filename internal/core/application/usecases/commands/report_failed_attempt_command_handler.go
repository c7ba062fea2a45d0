package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// ReportFailedAttemptCommandHandler closes an undeliverable order and frees
// its rider in the same transaction.
type ReportFailedAttemptCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
}

// NewReportFailedAttemptCommandHandler creates a handler for failed attempts.
func NewReportFailedAttemptCommandHandler(uowFactory UoWFactory, publisher ports.OrderEventPublisher) ReportFailedAttemptCommandHandler {
	return ReportFailedAttemptCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the failure report.
func (h *ReportFailedAttemptCommandHandler) Handle(ctx context.Context, cmd ReportFailedAttemptCommand) error {
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

	if err = aggregate.FailAttempt(cmd.Actor(), cmd.ReasonCode(), cmd.Notes(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, cmd.Actor().ID)
	if err != nil {
		return err
	}

	if err = r.CompleteOrder(aggregate.ID()); err != nil {
		return err
	}

	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishStatusChanged(ctx, aggregate)

	return nil
}
