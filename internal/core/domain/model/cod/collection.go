package cod

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

// Payment modes a rider can accept at the door.
const (
	ModeCash = "CASH"
	ModeUPI  = "UPI"
)

// ErrCollectionIsNotConstructed is returned when using an improperly
// initialized Collection.
var ErrCollectionIsNotConstructed = errors.New("Collection must be created via NewCollection constructor")

// Collection records cash or UPI money taken by a rider at the door for a
// COD order. Each collection carries a client-generated idempotency key so a
// retried submission never books the money twice: the repository looks the
// key up before a handler creates a new entry.
type Collection struct {
	id             kernel.UUID
	orderID        kernel.UUID
	riderID        kernel.UUID
	amount         int64
	mode           string
	idempotencyKey string
	collectedAt    time.Time
	guard          guard.ConstructorGuard
}

// NewCollection validates and records a collection. The amount is the order
// total at the time of collection; partial collection is not supported, so
// callers never pass anything else.
func NewCollection(
	id, orderID, riderID kernel.UUID,
	amount int64,
	mode, idempotencyKey string,
	collectedAt time.Time,
) (*Collection, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		riderID.Validate(),
	); err != nil {
		return nil, err
	}
	if mode != ModeCash && mode != ModeUPI {
		return nil, errs.NewValueIsInvalidError("collection mode: " + mode)
	}
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotency key")
	}
	if amount <= 0 {
		return nil, errs.NewValueIsInvalidError("amount")
	}

	return &Collection{
		id:             id,
		orderID:        orderID,
		riderID:        riderID,
		amount:         amount,
		mode:           mode,
		idempotencyKey: idempotencyKey,
		collectedAt:    collectedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// RestoreCollection rebuilds a collection from persistence without re-running
// the construction rules.
func RestoreCollection(
	id, orderID, riderID kernel.UUID,
	amount int64,
	mode, idempotencyKey string,
	collectedAt time.Time,
) (*Collection, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		riderID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Collection{
		id:             id,
		orderID:        orderID,
		riderID:        riderID,
		amount:         amount,
		mode:           mode,
		idempotencyKey: idempotencyKey,
		collectedAt:    collectedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the Collection was created through a constructor.
func (c *Collection) Validate() error {
	if c == nil {
		return ErrCollectionIsNotConstructed
	}
	return c.guard.Validate(ErrCollectionIsNotConstructed)
}

// ID returns the collection identifier.
func (c *Collection) ID() kernel.UUID { return c.id }

// OrderID returns the COD order the money belongs to.
func (c *Collection) OrderID() kernel.UUID { return c.orderID }

// RiderID returns who took the money.
func (c *Collection) RiderID() kernel.UUID { return c.riderID }

// Amount returns the collected amount in minor currency units.
func (c *Collection) Amount() int64 { return c.amount }

// Mode returns how the money was taken, CASH or UPI.
func (c *Collection) Mode() string { return c.mode }

// IdempotencyKey returns the client-generated retry key.
func (c *Collection) IdempotencyKey() string { return c.idempotencyKey }

// CollectedAt returns when the money was taken.
func (c *Collection) CollectedAt() time.Time { return c.collectedAt }
