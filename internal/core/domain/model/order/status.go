package order

import (
	"lastmile/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with guarded transitions so that every caller,
// whether it renders state or mutates it, consults the same transition table.
//
// State transitions:
//
//	Pending ──> Created ──> Confirmed ──> Packed ──> Assigned ──> PickedUp ──> InTransit ──> Arrived ──> Delivered
//	                                                                              │             │
//	                                                                              └──> Failed <─┘
//	Cancelled is reachable from every state up to and including InTransit.
//
// A transition attempted from a wrong pre-state fails with a StateConflictError:
// the caller's view of the order is stale and must be re-read.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial state of a prepaid order awaiting payment.
	StatusPending

	// StatusCreated is the state of a payable order awaiting dispatcher confirmation.
	// COD orders start here directly.
	StatusCreated

	// StatusConfirmed indicates the dispatcher accepted the order.
	StatusConfirmed

	// StatusPacked indicates the order is packed and ready for rider assignment.
	StatusPacked

	// StatusAssigned indicates a rider accepted the delivery offer.
	StatusAssigned

	// StatusPickedUp indicates the assigned rider collected the order.
	StatusPickedUp

	// StatusInTransit indicates the order is on its way to the customer.
	StatusInTransit

	// StatusArrived indicates the rider recorded arrival at the drop-off point.
	StatusArrived

	// StatusDelivered is the terminal success state, reached only through OTP
	// verification.
	StatusDelivered

	// StatusCancelled is a terminal state reachable before and during transit.
	StatusCancelled

	// StatusFailed is the terminal state of a failed delivery attempt.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusCreated:   "created",
		StatusConfirmed: "confirmed",
		StatusPacked:    "packed",
		StatusAssigned:  "assigned",
		StatusPickedUp:  "picked_up",
		StatusInTransit: "in_transit",
		StatusArrived:   "arrived",
		StatusDelivered: "delivered",
		StatusCancelled: "cancelled",
		StatusFailed:    "failed",
	}
}

// StatusFromString parses a persisted status string.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("order status")
}

// String returns the persisted representation of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidError("order status")
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

func (s Status) transition(to Status, allowedFrom ...Status) (Status, error) {
	for _, from := range allowedFrom {
		if s == from {
			return to, nil
		}
	}
	return StatusUnknown, errs.NewStateConflictError("order status", expectedStates(allowedFrom), s.String())
}

func expectedStates(states []Status) string {
	out := ""
	for i, s := range states {
		if i > 0 {
			out += "|"
		}
		out += s.String()
	}
	return out
}

// MarkPaid transitions a prepaid order out of Pending once payment succeeds.
func (s Status) MarkPaid() (Status, error) {
	return s.transition(StatusCreated, StatusPending)
}

// Confirm transitions the order to Confirmed (dispatcher acceptance).
func (s Status) Confirm() (Status, error) {
	return s.transition(StatusConfirmed, StatusCreated)
}

// Pack transitions the order to Packed.
func (s Status) Pack() (Status, error) {
	return s.transition(StatusPacked, StatusConfirmed)
}

// Assign transitions the order to Assigned when a rider accepts the offer.
// Offers may be accepted from Created, Confirmed or Packed.
func (s Status) Assign() (Status, error) {
	return s.transition(StatusAssigned, StatusCreated, StatusConfirmed, StatusPacked)
}

// Pickup transitions the order to PickedUp.
func (s Status) Pickup() (Status, error) {
	return s.transition(StatusPickedUp, StatusAssigned)
}

// StartTransit transitions the order to InTransit.
// Packed is accepted as a pre-state for flows where pickup is implicit.
func (s Status) StartTransit() (Status, error) {
	return s.transition(StatusInTransit, StatusPickedUp, StatusPacked)
}

// Arrive transitions the order to Arrived.
func (s Status) Arrive() (Status, error) {
	return s.transition(StatusArrived, StatusInTransit)
}

// Deliver transitions the order to the terminal Delivered state.
func (s Status) Deliver() (Status, error) {
	return s.transition(StatusDelivered, StatusArrived)
}

// Cancel transitions the order to Cancelled. Allowed from every state up to
// and including InTransit.
func (s Status) Cancel() (Status, error) {
	return s.transition(StatusCancelled,
		StatusPending, StatusCreated, StatusConfirmed, StatusPacked,
		StatusAssigned, StatusPickedUp, StatusInTransit)
}

// Fail transitions the order to Failed after an unsuccessful delivery attempt.
func (s Status) Fail() (Status, error) {
	return s.transition(StatusFailed, StatusInTransit, StatusArrived)
}

// DeliveryStatus tracks the rider-facing leg of the order independently of the
// overall order status. Unassigned forbids any pickup or transit transition
// regardless of the order status.
type DeliveryStatus int

const (
	// DeliveryUnknown represents an invalid or undefined delivery status.
	DeliveryUnknown DeliveryStatus = iota

	// DeliveryUnassigned means no rider currently owns the delivery.
	DeliveryUnassigned

	// DeliveryAssigned means a rider accepted the offer.
	DeliveryAssigned

	// DeliveryPickedUp mirrors the rider's pickup milestone.
	DeliveryPickedUp

	// DeliveryInTransit mirrors the transit milestone.
	DeliveryInTransit

	// DeliveryArrived mirrors the arrival milestone.
	DeliveryArrived

	// DeliveryDelivered is the terminal success state.
	DeliveryDelivered

	// DeliveryCancelled is the terminal failure state, used both for cancels
	// and failed delivery attempts.
	DeliveryCancelled
)

func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryUnknown:    "unknown",
		DeliveryUnassigned: "unassigned",
		DeliveryAssigned:   "assigned",
		DeliveryPickedUp:   "picked_up",
		DeliveryInTransit:  "in_transit",
		DeliveryArrived:    "arrived",
		DeliveryDelivered:  "delivered",
		DeliveryCancelled:  "cancelled",
	}
}

// DeliveryStatusFromString parses a persisted delivery status string.
func DeliveryStatusFromString(s string) (DeliveryStatus, error) {
	for status, str := range getDeliveryStatusStrings() {
		if str == s && status != DeliveryUnknown {
			return status, nil
		}
	}
	return DeliveryUnknown, errs.NewValueIsInvalidError("delivery status")
}

// String returns the persisted representation of the delivery status.
func (d DeliveryStatus) String() string {
	if str, ok := getDeliveryStatusStrings()[d]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the delivery status is one of the defined values.
func (d DeliveryStatus) Validate() error {
	if _, ok := getDeliveryStatusStrings()[d]; !ok || d == DeliveryUnknown {
		return errs.NewValueIsInvalidError("delivery status")
	}
	return nil
}

// IsActive reports whether a rider currently owns the delivery leg.
func (d DeliveryStatus) IsActive() bool {
	switch d {
	case DeliveryAssigned, DeliveryPickedUp, DeliveryInTransit, DeliveryArrived:
		return true
	default:
		return false
	}
}
