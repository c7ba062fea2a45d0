package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrVerifyOtpCommandIsNotConstructed = errors.New(
	"VerifyOtpCommand must be created via NewVerifyOtpCommand constructor",
)

// VerifyOtpCommand represents the rider submitting the code the customer
// read out at the door.
type VerifyOtpCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID
	code    string

	guard guard.ConstructorGuard
}

// NewVerifyOtpCommand creates a command to verify a delivery code.
func NewVerifyOtpCommand(orderID, riderID kernel.UUID, code string) (VerifyOtpCommand, error) {
	cmd := VerifyOtpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setCode(code),
	); err != nil {
		return VerifyOtpCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOtpCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOtpCommandIsNotConstructed)
}

// OrderID returns the order being completed.
func (c VerifyOtpCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the submitting rider.
func (c VerifyOtpCommand) Actor() order.Actor {
	return order.Actor{ID: c.riderID, Role: order.RoleRider}
}

// Code returns the submitted verification code.
func (c VerifyOtpCommand) Code() string {
	return c.code
}

func (c *VerifyOtpCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *VerifyOtpCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *VerifyOtpCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}
