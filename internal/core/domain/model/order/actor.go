package order

import (
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// Role identifies the authority level of an actor touching an order.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRider      Role = "rider"
	RoleDispatcher Role = "dispatcher"
	RoleAdmin      Role = "admin"
	RoleSystem     Role = "system"
)

// RoleFromString parses a role string.
func RoleFromString(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleRider, RoleDispatcher, RoleAdmin, RoleSystem:
		return Role(s), nil
	default:
		return "", errs.NewValueIsInvalidError("role")
	}
}

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	_, err := RoleFromString(string(r))
	return err
}

// Actor is the identity performing an operation on an order. Every mutating
// aggregate method takes an Actor so authority checks and the history log
// cannot drift apart from the transition itself.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

// NewActor creates an Actor after validating its parts.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

func (a Actor) isStaff() bool {
	return a.Role == RoleDispatcher || a.Role == RoleAdmin
}
