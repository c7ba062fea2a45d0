package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/guard"
)

var ErrStartDeliveryAttemptCommandIsNotConstructed = errors.New(
	"StartDeliveryAttemptCommand must be created via NewStartDeliveryAttemptCommand constructor",
)

// StartDeliveryAttemptCommand represents the rider at the customer's door
// asking for a verification code to be sent. Re-issuing replaces the
// previous code and restarts its window.
type StartDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartDeliveryAttemptCommand creates a command to start a delivery attempt.
func NewStartDeliveryAttemptCommand(orderID, riderID kernel.UUID) (StartDeliveryAttemptCommand, error) {
	cmd := StartDeliveryAttemptCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
	); err != nil {
		return StartDeliveryAttemptCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryAttemptCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c StartDeliveryAttemptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the rider at the door.
func (c StartDeliveryAttemptCommand) Actor() order.Actor {
	return order.Actor{ID: c.riderID, Role: order.RoleRider}
}

func (c *StartDeliveryAttemptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StartDeliveryAttemptCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}
