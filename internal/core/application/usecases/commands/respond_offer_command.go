package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrRespondOfferCommandIsNotConstructed = errors.New(
	"RespondOfferCommand must be created via NewRespondOfferCommand constructor",
)

// RespondOfferCommand represents a rider answering a delivery offer, either
// taking the order or declining it with a reason.
type RespondOfferCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	riderID  kernel.UUID
	accepted bool
	reason   string

	guard guard.ConstructorGuard
}

// NewRespondOfferCommand creates a command carrying the rider's answer.
// Declining requires a reason; accepting ignores it.
func NewRespondOfferCommand(orderID, riderID kernel.UUID, accepted bool, reason string) (RespondOfferCommand, error) {
	cmd := RespondOfferCommand{
		guard:    guard.NewConstructorGuard(),
		accepted: accepted,
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setReason(accepted, reason),
	); err != nil {
		return RespondOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondOfferCommand) Validate() error {
	return c.guard.Validate(ErrRespondOfferCommandIsNotConstructed)
}

// OrderID returns the offered order.
func (c RespondOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the responding rider.
func (c RespondOfferCommand) Actor() order.Actor {
	return order.Actor{ID: c.riderID, Role: order.RoleRider}
}

// Accepted reports whether the rider took the order.
func (c RespondOfferCommand) Accepted() bool {
	return c.accepted
}

// Reason returns why the rider declined, empty on acceptance.
func (c RespondOfferCommand) Reason() string {
	return c.reason
}

func (c *RespondOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RespondOfferCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *RespondOfferCommand) setReason(accepted bool, reason string) error {
	if !accepted && reason == "" {
		return errs.NewValueIsRequiredError("decline reason")
	}

	c.reason = reason
	return nil
}
