package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrReportFailedAttemptCommandIsNotConstructed = errors.New(
	"ReportFailedAttemptCommand must be created via NewReportFailedAttemptCommand constructor",
)

// ReportFailedAttemptCommand represents a rider giving up on a delivery:
// nobody home, refused, unreachable address. A reason code is mandatory,
// free-text notes are optional and capped.
type ReportFailedAttemptCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	riderID    kernel.UUID
	reasonCode string
	notes      string

	guard guard.ConstructorGuard
}

// NewReportFailedAttemptCommand creates a command to report a failed attempt.
func NewReportFailedAttemptCommand(orderID, riderID kernel.UUID, reasonCode, notes string) (ReportFailedAttemptCommand, error) {
	cmd := ReportFailedAttemptCommand{
		guard: guard.NewConstructorGuard(),
		notes: notes,
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setReasonCode(reasonCode),
	); err != nil {
		return ReportFailedAttemptCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportFailedAttemptCommand) Validate() error {
	return c.guard.Validate(ErrReportFailedAttemptCommandIsNotConstructed)
}

// OrderID returns the order that could not be delivered.
func (c ReportFailedAttemptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the reporting rider.
func (c ReportFailedAttemptCommand) Actor() order.Actor {
	return order.Actor{ID: c.riderID, Role: order.RoleRider}
}

// ReasonCode returns the machine-readable failure reason.
func (c ReportFailedAttemptCommand) ReasonCode() string {
	return c.reasonCode
}

// Notes returns the rider's free-text notes, possibly empty.
func (c ReportFailedAttemptCommand) Notes() string {
	return c.notes
}

func (c *ReportFailedAttemptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReportFailedAttemptCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *ReportFailedAttemptCommand) setReasonCode(reasonCode string) error {
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reason code")
	}

	c.reasonCode = reasonCode
	return nil
}
