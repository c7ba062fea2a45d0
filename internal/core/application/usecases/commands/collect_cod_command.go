package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/cod"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrCollectCodCommandIsNotConstructed = errors.New(
	"CollectCodCommand must be created via NewCollectCodCommand constructor",
)

// CollectCodCommand represents a rider recording money taken at the door
// for a COD order. The amount is never part of the command; the handler books
// the order's current total. The idempotency key makes a retried submission
// a no-op.
type CollectCodCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	riderID        kernel.UUID
	mode           string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCollectCodCommand creates a command to record a collection.
func NewCollectCodCommand(
	orderID, riderID kernel.UUID,
	mode, idempotencyKey string,
) (CollectCodCommand, error) {
	cmd := CollectCodCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setMode(mode),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return CollectCodCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CollectCodCommand) Validate() error {
	return c.guard.Validate(ErrCollectCodCommandIsNotConstructed)
}

// OrderID returns the COD order.
func (c CollectCodCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RiderID returns who took the money.
func (c CollectCodCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Mode returns how the money was taken.
func (c CollectCodCommand) Mode() string {
	return c.mode
}

// IdempotencyKey returns the client-generated retry key.
func (c CollectCodCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *CollectCodCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CollectCodCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *CollectCodCommand) setMode(mode string) error {
	if mode != cod.ModeCash && mode != cod.ModeUPI {
		return errs.NewValueIsInvalidError("mode: " + mode)
	}

	c.mode = mode
	return nil
}

func (c *CollectCodCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotency key")
	}

	c.idempotencyKey = key
	return nil
}
