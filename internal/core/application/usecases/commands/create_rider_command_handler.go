package commands

import (
	"context"

	"lastmile/internal/core/domain/model/rider"
)

// CreateRiderCommandHandler onboards a new rider, off duty until they
// check in.
type CreateRiderCommandHandler struct {
	uowFactory RiderUoWFactory
}

// NewCreateRiderCommandHandler creates a handler for rider onboarding.
func NewCreateRiderCommandHandler(uowFactory RiderUoWFactory) CreateRiderCommandHandler {
	return CreateRiderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the onboarding command.
func (h *CreateRiderCommandHandler) Handle(ctx context.Context, cmd CreateRiderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := rider.NewRider(cmd.RiderID(), cmd.Name(), cmd.Phone(), cmd.Vehicle())
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

	if err = uow.RiderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
