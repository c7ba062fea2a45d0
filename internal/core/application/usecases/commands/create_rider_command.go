package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/rider"
	"lastmile/internal/pkg/guard"
)

var ErrCreateRiderCommandIsNotConstructed = errors.New(
	"CreateRiderCommand must be created via NewCreateRiderCommand constructor",
)

// CreateRiderCommand represents onboarding a new delivery rider.
type CreateRiderCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	name    string
	phone   string
	vehicle rider.VehicleType

	guard guard.ConstructorGuard
}

// NewCreateRiderCommand creates a command to onboard a rider.
func NewCreateRiderCommand(riderID kernel.UUID, name, phone, vehicle string) (CreateRiderCommand, error) {
	cmd := CreateRiderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRiderID(riderID),
		cmd.setName(name),
		cmd.setPhone(phone),
		cmd.setVehicle(vehicle),
	); err != nil {
		return CreateRiderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRiderCommand) Validate() error {
	return c.guard.Validate(ErrCreateRiderCommandIsNotConstructed)
}

// RiderID returns the identifier for the new rider.
func (c CreateRiderCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Name returns the rider's name.
func (c CreateRiderCommand) Name() string {
	return c.name
}

// Phone returns the rider's contact number.
func (c CreateRiderCommand) Phone() string {
	return c.phone
}

// Vehicle returns the rider's vehicle type.
func (c CreateRiderCommand) Vehicle() rider.VehicleType {
	return c.vehicle
}

func (c *CreateRiderCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *CreateRiderCommand) setName(name string) error {
	if name == "" {
		return rider.ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateRiderCommand) setPhone(phone string) error {
	if phone == "" {
		return rider.ErrPhoneIsRequired
	}

	c.phone = phone
	return nil
}

func (c *CreateRiderCommand) setVehicle(vehicle string) error {
	parsed, err := rider.VehicleTypeFromString(vehicle)
	if err != nil {
		return err
	}

	c.vehicle = parsed
	return nil
}
