package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/cod"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// CollectCodCommandHandler records money a rider took at the door. A retry
// carrying a key already in the ledger is acknowledged without a second
// entry; the booked amount is always the order's current total.
type CollectCodCommandHandler struct {
	uowFactory CodUoWFactory
	now        func() time.Time
}

// NewCollectCodCommandHandler creates a handler for COD collections.
func NewCollectCodCommandHandler(uowFactory CodUoWFactory) CollectCodCommandHandler {
	return CollectCodCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle processes the collection.
func (h *CollectCodCommandHandler) Handle(ctx context.Context, cmd CollectCodCommand) error {
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

	codRepo := uow.CodRepository()
	existing, err := codRepo.GetByIdempotencyKey(ctx, cmd.OrderID(), cmd.IdempotencyKey())
	if err != nil {
		return err
	}
	if existing != nil {
		// Retried submission, already booked.
		return uow.Commit(ctx)
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !aggregate.PaymentMethod().IsCOD() {
		return errs.NewValueIsInvalidError("order payment method")
	}
	if status := aggregate.Status(); status.IsTerminal() {
		return errs.NewStateConflictError("order status", "before completion", status.String())
	}
	if assigned := aggregate.Rider(); assigned == nil || !assigned.IsEqual(cmd.RiderID()) {
		return errs.NewRiderNotAssignedError(cmd.RiderID().String(), aggregate.ID().String())
	}

	collection, err := cod.NewCollection(
		kernel.NewUUID(), cmd.OrderID(), cmd.RiderID(),
		aggregate.TotalAmount(),
		cmd.Mode(), cmd.IdempotencyKey(),
		h.now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = codRepo.Add(ctx, collection); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
