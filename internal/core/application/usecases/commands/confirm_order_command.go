package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents a staff member accepting an order for
// fulfilment.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	role    order.Role

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm an order.
func NewConfirmOrderCommand(orderID, actorID kernel.UUID, role string) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actorID, role),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order being confirmed.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns who is confirming.
func (c ConfirmOrderCommand) Actor() order.Actor {
	return order.Actor{ID: c.actorID, Role: c.role}
}

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setActor(actorID kernel.UUID, role string) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	parsed, err := order.RoleFromString(role)
	if err != nil {
		return err
	}

	c.actorID = actorID
	c.role = parsed
	return nil
}
