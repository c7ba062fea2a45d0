package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// VerifyOtpCommandHandler completes a delivery when the submitted code
// matches. Success frees the rider in the same transaction; every failure
// mode surfaces as the aggregate's single generic verification error.
type VerifyOtpCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
	now        func() time.Time
}

// NewVerifyOtpCommandHandler creates a handler for code verification.
func NewVerifyOtpCommandHandler(uowFactory UoWFactory, publisher ports.OrderEventPublisher) VerifyOtpCommandHandler {
	return VerifyOtpCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle processes the verification.
func (h *VerifyOtpCommandHandler) Handle(ctx context.Context, cmd VerifyOtpCommand) error {
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

	if err = aggregate.VerifyOtp(cmd.Actor(), cmd.Code(), h.now().UTC()); err != nil {
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
