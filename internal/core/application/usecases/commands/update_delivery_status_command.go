package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand represents the assigned rider reporting a
// delivery milestone: picked up, in transit or arrived. The milestone names
// the state the rider intends to enter; the aggregate rejects it with a
// state conflict when the order has moved on, which is how replayed offline
// updates are caught.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	riderID   kernel.UUID
	milestone order.DeliveryStatus

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryStatusCommand creates a command to report a milestone.
// Only picked_up, in_transit and arrived are reportable by riders.
func NewUpdateDeliveryStatusCommand(orderID, riderID kernel.UUID, milestone string) (UpdateDeliveryStatusCommand, error) {
	cmd := UpdateDeliveryStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setMilestone(milestone),
	); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

// OrderID returns the order being advanced.
func (c UpdateDeliveryStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the reporting rider.
func (c UpdateDeliveryStatusCommand) Actor() order.Actor {
	return order.Actor{ID: c.riderID, Role: order.RoleRider}
}

// Milestone returns the delivery state the rider intends to enter.
func (c UpdateDeliveryStatusCommand) Milestone() order.DeliveryStatus {
	return c.milestone
}

func (c *UpdateDeliveryStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateDeliveryStatusCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *UpdateDeliveryStatusCommand) setMilestone(milestone string) error {
	parsed, err := order.DeliveryStatusFromString(milestone)
	if err != nil {
		return err
	}

	switch parsed {
	case order.DeliveryPickedUp, order.DeliveryInTransit, order.DeliveryArrived:
	default:
		return errs.NewValueIsInvalidError("milestone: " + milestone)
	}

	c.milestone = parsed
	return nil
}
