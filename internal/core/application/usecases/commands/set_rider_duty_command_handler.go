package commands

import (
	"context"

	"lastmile/internal/core/domain/model/rider"
)

// SetRiderDutyCommandHandler flips a rider's availability for dispatch.
type SetRiderDutyCommandHandler struct {
	uowFactory RiderUoWFactory
}

// NewSetRiderDutyCommandHandler creates a handler for duty changes.
func NewSetRiderDutyCommandHandler(uowFactory RiderUoWFactory) SetRiderDutyCommandHandler {
	return SetRiderDutyCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the duty change.
func (h *SetRiderDutyCommandHandler) Handle(ctx context.Context, cmd SetRiderDutyCommand) error {
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

	riderRepo := uow.RiderRepository()
	aggregate, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	if cmd.Duty() == rider.DutyOn {
		aggregate.GoOnDuty()
	} else {
		aggregate.GoOffDuty()
	}

	if err = riderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
