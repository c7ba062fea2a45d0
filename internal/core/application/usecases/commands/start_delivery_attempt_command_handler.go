package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// StartDeliveryAttemptCommandHandler issues a delivery OTP. For COD orders
// the money must already be in the ledger; the code goes to the customer and
// never to the rider.
type StartDeliveryAttemptCommandHandler struct {
	uowFactory CodUoWFactory
	generator  services.OtpGenerator
	notifier   ports.Notifier
	otpTTL     time.Duration
	now        func() time.Time
}

// NewStartDeliveryAttemptCommandHandler creates a handler for OTP issuance.
func NewStartDeliveryAttemptCommandHandler(
	uowFactory CodUoWFactory,
	generator services.OtpGenerator,
	notifier ports.Notifier,
	otpTTL time.Duration,
) StartDeliveryAttemptCommandHandler {
	return StartDeliveryAttemptCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		notifier:   notifier,
		otpTTL:     otpTTL,
		now:        time.Now,
	}
}

// Handle processes the attempt: checks the COD gate, stores a fresh code and
// sends it to the customer once the transaction commits.
func (h *StartDeliveryAttemptCommandHandler) Handle(ctx context.Context, cmd StartDeliveryAttemptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	code, err := h.generator.Generate()
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	codCollected := true
	if aggregate.PaymentMethod().IsCOD() {
		collection, err := uow.CodRepository().GetByOrder(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		codCollected = collection != nil
	}

	if err = aggregate.StartDeliveryAttempt(cmd.Actor(), code, h.otpTTL, codCollected, h.now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.NotifyOtp(ctx, aggregate.ID(), aggregate.CustomerID(), code)

	return nil
}
