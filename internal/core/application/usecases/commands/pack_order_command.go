package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/guard"
)

var ErrPackOrderCommandIsNotConstructed = errors.New(
	"PackOrderCommand must be created via NewPackOrderCommand constructor",
)

// PackOrderCommand represents staff marking an order packed and ready for
// rider assignment.
type PackOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	role    order.Role

	guard guard.ConstructorGuard
}

// NewPackOrderCommand creates a command to mark an order packed.
func NewPackOrderCommand(orderID, actorID kernel.UUID, role string) (PackOrderCommand, error) {
	cmd := PackOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actorID, role),
	); err != nil {
		return PackOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PackOrderCommand) Validate() error {
	return c.guard.Validate(ErrPackOrderCommandIsNotConstructed)
}

// OrderID returns the order being packed.
func (c PackOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns who is packing.
func (c PackOrderCommand) Actor() order.Actor {
	return order.Actor{ID: c.actorID, Role: c.role}
}

func (c *PackOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PackOrderCommand) setActor(actorID kernel.UUID, role string) error {
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
