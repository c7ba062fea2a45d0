package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/rider"
	"lastmile/internal/pkg/guard"
)

var ErrSetRiderDutyCommandIsNotConstructed = errors.New(
	"SetRiderDutyCommand must be created via NewSetRiderDutyCommand constructor",
)

// SetRiderDutyCommand represents a rider checking in or out of dispatch.
type SetRiderDutyCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	duty    rider.DutyStatus

	guard guard.ConstructorGuard
}

// NewSetRiderDutyCommand creates a command to change a rider's duty status.
func NewSetRiderDutyCommand(riderID kernel.UUID, duty string) (SetRiderDutyCommand, error) {
	cmd := SetRiderDutyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRiderID(riderID),
		cmd.setDuty(duty),
	); err != nil {
		return SetRiderDutyCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetRiderDutyCommand) Validate() error {
	return c.guard.Validate(ErrSetRiderDutyCommandIsNotConstructed)
}

// RiderID returns the rider changing status.
func (c SetRiderDutyCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Duty returns the requested duty status.
func (c SetRiderDutyCommand) Duty() rider.DutyStatus {
	return c.duty
}

func (c *SetRiderDutyCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *SetRiderDutyCommand) setDuty(duty string) error {
	parsed, err := rider.DutyStatusFromString(duty)
	if err != nil {
		return err
	}

	c.duty = parsed
	return nil
}
