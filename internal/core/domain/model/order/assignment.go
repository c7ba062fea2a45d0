package order

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// AssignmentStatus is the outcome state of a single delivery offer.
type AssignmentStatus string

const (
	// AssignmentOffered means the rider has been offered the order and has not
	// responded yet. At most one entry per order may be in this state.
	AssignmentOffered AssignmentStatus = "offered"

	// AssignmentAccepted means the rider took the order.
	AssignmentAccepted AssignmentStatus = "accepted"

	// AssignmentRejected means the rider declined the offer.
	AssignmentRejected AssignmentStatus = "rejected"
)

// AssignmentStatusFromString parses a persisted assignment status.
func AssignmentStatusFromString(s string) (AssignmentStatus, error) {
	switch AssignmentStatus(s) {
	case AssignmentOffered, AssignmentAccepted, AssignmentRejected:
		return AssignmentStatus(s), nil
	default:
		return "", errs.NewValueIsInvalidError("assignment status")
	}
}

// AssignmentEntry is one record in the append-only offer/accept/reject log of
// an order. Entries are strictly ordered by offer time.
type AssignmentEntry struct {
	riderID      kernel.UUID
	status       AssignmentStatus
	offeredAt    time.Time
	acceptedAt   *time.Time
	rejectedAt   *time.Time
	rejectReason string
}

// NewAssignmentEntry creates an entry in the offered state.
func NewAssignmentEntry(riderID kernel.UUID, offeredAt time.Time) (AssignmentEntry, error) {
	if err := riderID.Validate(); err != nil {
		return AssignmentEntry{}, err
	}
	if offeredAt.IsZero() {
		return AssignmentEntry{}, errs.NewValueIsRequiredError("offeredAt")
	}

	return AssignmentEntry{
		riderID:   riderID,
		status:    AssignmentOffered,
		offeredAt: offeredAt,
	}, nil
}

// RestoreAssignmentEntry rebuilds an entry from persistence without replaying
// the offer lifecycle.
func RestoreAssignmentEntry(
	riderID kernel.UUID,
	status AssignmentStatus,
	offeredAt time.Time,
	acceptedAt, rejectedAt *time.Time,
	rejectReason string,
) AssignmentEntry {
	return AssignmentEntry{
		riderID:      riderID,
		status:       status,
		offeredAt:    offeredAt,
		acceptedAt:   acceptedAt,
		rejectedAt:   rejectedAt,
		rejectReason: rejectReason,
	}
}

// RiderID returns the rider the order was offered to.
func (e AssignmentEntry) RiderID() kernel.UUID { return e.riderID }

// Status returns the entry outcome state.
func (e AssignmentEntry) Status() AssignmentStatus { return e.status }

// OfferedAt returns when the offer was made.
func (e AssignmentEntry) OfferedAt() time.Time { return e.offeredAt }

// AcceptedAt returns when the offer was accepted, or nil.
func (e AssignmentEntry) AcceptedAt() *time.Time { return e.acceptedAt }

// RejectedAt returns when the offer was rejected, or nil.
func (e AssignmentEntry) RejectedAt() *time.Time { return e.rejectedAt }

// RejectReason returns the rider-supplied rejection reason, if any.
func (e AssignmentEntry) RejectReason() string { return e.rejectReason }

func (e *AssignmentEntry) accept(at time.Time) {
	e.status = AssignmentAccepted
	e.acceptedAt = &at
}

func (e *AssignmentEntry) reject(reason string, at time.Time) {
	e.status = AssignmentRejected
	e.rejectedAt = &at
	e.rejectReason = reason
}
