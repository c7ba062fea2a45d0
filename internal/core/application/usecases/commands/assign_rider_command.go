package commands

import (
	"errors"

	"lastmile/internal/pkg/guard"
)

var ErrAssignRiderCommandIsNotConstructed = errors.New(
	"AssignRiderCommand must be created via NewAssignRiderCommand constructor",
)

// AssignRiderCommand triggers one dispatch pass: every order awaiting
// assignment gets an offer to its nearest available rider. Carries no
// parameters, the handler discovers the work itself.
type AssignRiderCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignRiderCommand creates a command to run a dispatch pass.
func NewAssignRiderCommand() AssignRiderCommand {
	return AssignRiderCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AssignRiderCommand) Validate() error {
	return c.guard.Validate(ErrAssignRiderCommandIsNotConstructed)
}
