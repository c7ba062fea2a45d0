package order

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

const (
	// OtpLength is the number of digits in a delivery OTP.
	OtpLength = 4

	// FailureNotesMaxLen caps the free-text notes of a failed delivery attempt.
	FailureNotesMaxLen = 200
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOtpVerificationFailed is the single, deliberately generic signal for
	// every OTP verification failure: wrong code, expired code, or no
	// outstanding attempt. Callers must not learn which check failed.
	ErrOtpVerificationFailed = errors.New("otp verification failed")

	// ErrOfferAlreadyOpen is returned when offering an order that already has
	// an unanswered offer. The offer model is strictly sequential.
	ErrOfferAlreadyOpen = errors.New("an offer is already outstanding for this order")

	// ErrNoOpenOffer is returned when accepting or rejecting without an
	// outstanding offer.
	ErrNoOpenOffer = errors.New("no outstanding offer for this order")

	// ErrCodCollectionRequired gates OTP issuance on COD orders until the
	// collection is recorded.
	ErrCodCollectionRequired = errors.New("cod collection must be recorded before issuing otp")
)

var otpPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Order is the aggregate root for the delivery lifecycle. It is the single
// source of truth for order state: every actor mutates it only through the
// state-machine-guarded methods below, never by direct field writes.
//
// Invariants maintained by the aggregate:
//   - deliveryStatus Unassigned forbids any pickup/transit transition
//     regardless of the order status
//   - at most one assignment-history entry is in the offered state at a time
//   - a delivery OTP is consumed on successful verification and never reused
//   - status history and assignment history are append-only and ordered
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	dropoff    kernel.GeoPoint

	items       []Item
	totalAmount int64

	paymentMethod PaymentMethod
	paymentStatus PaymentStatus

	status         Status
	deliveryStatus DeliveryStatus

	riderID           *kernel.UUID
	assignmentHistory []AssignmentEntry

	deliveryOtp  string
	otpExpiresAt *time.Time

	deliveryProof *DeliveryProof
	riderLocation *RiderLocation
	earnings      Earnings

	history []HistoryEntry

	pickedUpAt  *time.Time
	inTransitAt *time.Time
	arrivedAt   *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates an order in its initial state. COD orders start in Created
// with payment pending until collection at the door; prepaid orders start in
// Pending until MarkPaid is called.
func NewOrder(
	id, customerID kernel.UUID,
	dropoff kernel.GeoPoint,
	items []Item,
	paymentMethod PaymentMethod,
	earnings Earnings,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		dropoff.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	total += earnings.DeliveryFee

	status := StatusPending
	if paymentMethod.IsCOD() {
		status = StatusCreated
	}

	o := &Order{
		id:             id,
		customerID:     customerID,
		dropoff:        dropoff,
		items:          append([]Item(nil), items...),
		totalAmount:    total,
		paymentMethod:  paymentMethod,
		paymentStatus:  PaymentStatusPending,
		status:         status,
		deliveryStatus: DeliveryUnassigned,
		earnings:       earnings,
		isConstructed:  true,
	}
	o.appendHistory(status, customerID, RoleCustomer, now, nil)

	return o, nil
}

// Snapshot carries every persisted order field for reconstruction.
type Snapshot struct {
	ID                kernel.UUID
	CustomerID        kernel.UUID
	Dropoff           kernel.GeoPoint
	Items             []Item
	TotalAmount       int64
	PaymentMethod     PaymentMethod
	PaymentStatus     PaymentStatus
	Status            Status
	DeliveryStatus    DeliveryStatus
	RiderID           *kernel.UUID
	AssignmentHistory []AssignmentEntry
	DeliveryOtp       string
	OtpExpiresAt      *time.Time
	DeliveryProof     *DeliveryProof
	RiderLocation     *RiderLocation
	Earnings          Earnings
	History           []HistoryEntry
	PickedUpAt        *time.Time
	InTransitAt       *time.Time
	ArrivedAt         *time.Time
	DeliveredAt       *time.Time
}

// RestoreOrder rebuilds an order from persistence. It validates identity and
// enum fields but does not replay the lifecycle.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.CustomerID.Validate(),
		s.Status.Validate(),
		s.DeliveryStatus.Validate(),
		s.PaymentMethod.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:                s.ID,
		customerID:        s.CustomerID,
		dropoff:           s.Dropoff,
		items:             s.Items,
		totalAmount:       s.TotalAmount,
		paymentMethod:     s.PaymentMethod,
		paymentStatus:     s.PaymentStatus,
		status:            s.Status,
		deliveryStatus:    s.DeliveryStatus,
		riderID:           s.RiderID,
		assignmentHistory: s.AssignmentHistory,
		deliveryOtp:       s.DeliveryOtp,
		otpExpiresAt:      s.OtpExpiresAt,
		deliveryProof:     s.DeliveryProof,
		riderLocation:     s.RiderLocation,
		earnings:          s.Earnings,
		history:           s.History,
		pickedUpAt:        s.PickedUpAt,
		inTransitAt:       s.InTransitAt,
		arrivedAt:         s.ArrivedAt,
		deliveredAt:       s.DeliveredAt,
		isConstructed:     true,
	}, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the owning customer.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Dropoff returns the delivery destination.
func (o *Order) Dropoff() kernel.GeoPoint { return o.dropoff }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item { return append([]Item(nil), o.items...) }

// TotalAmount returns the order total in minor currency units.
func (o *Order) TotalAmount() int64 { return o.totalAmount }

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// PaymentStatus returns the payment state.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// Status returns the current order status.
func (o *Order) Status() Status { return o.status }

// DeliveryStatus returns the rider-facing delivery leg status.
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }

// Rider returns the active rider's ID, or nil when unassigned.
func (o *Order) Rider() *kernel.UUID { return o.riderID }

// AssignmentHistory returns a copy of the offer/accept/reject log.
func (o *Order) AssignmentHistory() []AssignmentEntry {
	return append([]AssignmentEntry(nil), o.assignmentHistory...)
}

// OpenOffer returns the single outstanding offer, if any.
func (o *Order) OpenOffer() (AssignmentEntry, bool) {
	for _, e := range o.assignmentHistory {
		if e.Status() == AssignmentOffered {
			return e, true
		}
	}
	return AssignmentEntry{}, false
}

// DeliveryOtp exposes the stored code for persistence mapping only; it is
// never returned to the rider through any operation.
func (o *Order) DeliveryOtp() string { return o.deliveryOtp }

// OtpExpiresAt returns the expiry of the outstanding OTP, or nil.
func (o *Order) OtpExpiresAt() *time.Time { return o.otpExpiresAt }

// DeliveryProof returns the recorded completion proof, or nil.
func (o *Order) DeliveryProof() *DeliveryProof { return o.deliveryProof }

// RiderLocation returns the last reported rider position, or nil.
func (o *Order) RiderLocation() *RiderLocation { return o.riderLocation }

// Earnings returns the rider-facing money split.
func (o *Order) Earnings() Earnings { return o.earnings }

// History returns a copy of the status-change log.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// PickedUpAt returns the pickup milestone timestamp, or nil.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// InTransitAt returns the transit milestone timestamp, or nil.
func (o *Order) InTransitAt() *time.Time { return o.inTransitAt }

// ArrivedAt returns the arrival milestone timestamp, or nil.
func (o *Order) ArrivedAt() *time.Time { return o.arrivedAt }

// DeliveredAt returns the delivery milestone timestamp, or nil.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// MarkPaid records a successful prepayment and moves the order to Created.
func (o *Order) MarkPaid(actor Actor, now time.Time) error {
	newStatus, err := o.status.MarkPaid()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.paymentStatus = PaymentStatusPaid
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// Confirm records dispatcher acceptance of the order.
func (o *Order) Confirm(actor Actor, now time.Time) error {
	if !actor.isStaff() {
		return errs.NewNotAuthorizedError(string(actor.Role), "confirm order")
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// Pack marks the order packed and ready for rider assignment.
func (o *Order) Pack(actor Actor, now time.Time) error {
	if !actor.isStaff() {
		return errs.NewNotAuthorizedError(string(actor.Role), "pack order")
	}

	newStatus, err := o.status.Pack()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// Offer records a sequential delivery offer to a candidate rider.
// The order must not already have an open offer or an active rider.
func (o *Order) Offer(riderID kernel.UUID, now time.Time) error {
	switch o.status {
	case StatusCreated, StatusConfirmed, StatusPacked:
	default:
		return errs.NewStateConflictError("order status", "created|confirmed|packed", o.status.String())
	}
	if o.deliveryStatus != DeliveryUnassigned {
		return errs.NewStateConflictError("delivery status", "unassigned", o.deliveryStatus.String())
	}
	if _, open := o.OpenOffer(); open {
		return ErrOfferAlreadyOpen
	}

	entry, err := NewAssignmentEntry(riderID, now)
	if err != nil {
		return err
	}

	o.assignmentHistory = append(o.assignmentHistory, entry)
	return nil
}

// AcceptOffer records the offered rider taking the order: the entry becomes
// accepted, the rider becomes active and the delivery leg becomes assigned.
// Any rider other than the currently offered one receives an authorization
// failure.
func (o *Order) AcceptOffer(actor Actor, now time.Time) error {
	idx, err := o.openOfferFor(actor)
	if err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.assignmentHistory[idx].accept(now)
	riderID := actor.ID
	o.riderID = &riderID
	o.status = newStatus
	o.deliveryStatus = DeliveryAssigned
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// RejectOffer records the offered rider declining the order. The offer is
// closed; re-offering to the next candidate is the dispatcher's concern.
func (o *Order) RejectOffer(actor Actor, reason string, now time.Time) error {
	idx, err := o.openOfferFor(actor)
	if err != nil {
		return err
	}

	o.assignmentHistory[idx].reject(reason, now)
	return nil
}

// Pickup records the assigned rider collecting the order.
func (o *Order) Pickup(actor Actor, now time.Time) error {
	if err := o.requireAssignedRider(actor, "pickup order"); err != nil {
		return err
	}
	if o.deliveryStatus != DeliveryAssigned {
		return errs.NewStateConflictError("delivery status", "assigned", o.deliveryStatus.String())
	}

	newStatus, err := o.status.Pickup()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = DeliveryPickedUp
	o.pickedUpAt = &now
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// StartTransit records the assigned rider heading to the customer.
func (o *Order) StartTransit(actor Actor, now time.Time) error {
	if err := o.requireAssignedRider(actor, "start delivery"); err != nil {
		return err
	}

	newStatus, err := o.status.StartTransit()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = DeliveryInTransit
	o.inTransitAt = &now
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// Arrive records the assigned rider reaching the drop-off point.
func (o *Order) Arrive(actor Actor, now time.Time) error {
	if err := o.requireAssignedRider(actor, "mark arrived"); err != nil {
		return err
	}

	newStatus, err := o.status.Arrive()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = DeliveryArrived
	o.arrivedAt = &now
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// StartDeliveryAttempt stores a freshly generated OTP with its expiry window.
// The order must be at the door (Arrived) and, for COD orders, the collection
// must already be recorded. Calling it again regenerates the code and restarts
// the window (resend). The code is never handed to the rider.
func (o *Order) StartDeliveryAttempt(actor Actor, code string, ttl time.Duration, codCollected bool, now time.Time) error {
	if err := o.requireAssignedRider(actor, "start delivery attempt"); err != nil {
		return err
	}
	if o.status != StatusArrived {
		return errs.NewStateConflictError("order status", "arrived", o.status.String())
	}
	if !otpPattern.MatchString(code) {
		return errs.NewValueIsInvalidErrorWithCause("otp code",
			fmt.Errorf("code must be %d digits", OtpLength))
	}
	if ttl <= 0 {
		return errs.NewValueIsInvalidError("otp ttl")
	}
	if o.paymentMethod.IsCOD() && !codCollected {
		return ErrCodCollectionRequired
	}

	expiry := now.Add(ttl)
	o.deliveryOtp = code
	o.otpExpiresAt = &expiry
	return nil
}

// VerifyOtp completes the delivery if the submitted code matches the stored
// one and the window has not lapsed. On success the code is consumed, the
// proof recorded and the order becomes Delivered; COD orders are marked paid.
// Every failure mode returns the same ErrOtpVerificationFailed.
func (o *Order) VerifyOtp(actor Actor, code string, now time.Time) error {
	if err := o.requireAssignedRider(actor, "verify otp"); err != nil {
		return err
	}

	if o.deliveryOtp == "" || o.otpExpiresAt == nil {
		return ErrOtpVerificationFailed
	}
	if code != o.deliveryOtp || !now.Before(*o.otpExpiresAt) {
		return ErrOtpVerificationFailed
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.deliveryOtp = ""
	o.otpExpiresAt = nil
	o.status = newStatus
	o.deliveryStatus = DeliveryDelivered
	o.deliveredAt = &now
	o.deliveryProof = &DeliveryProof{
		Type:       ProofOTP,
		Value:      code,
		VerifiedAt: now,
		VerifiedBy: actor.ID,
	}
	if o.paymentMethod.IsCOD() {
		o.paymentStatus = PaymentStatusPaid
	}
	o.appendHistory(newStatus, actor.ID, actor.Role, now, nil)
	return nil
}

// Cancel terminates the order with a justification. Customers may cancel
// their own order before pickup; dispatchers and admins up to and including
// transit. Releasing reserved inventory is the caller's side effect.
func (o *Order) Cancel(actor Actor, reason string, now time.Time) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("cancel reason")
	}

	switch actor.Role {
	case RoleCustomer:
		if !actor.ID.IsEqual(o.customerID) {
			return errs.NewNotAuthorizedError(string(actor.Role), "cancel another customer's order")
		}
		switch o.status {
		case StatusPending, StatusCreated, StatusConfirmed, StatusPacked, StatusAssigned:
		default:
			return errs.NewStateConflictError("order status", "before pickup", o.status.String())
		}
	case RoleDispatcher, RoleAdmin, RoleSystem:
	default:
		return errs.NewNotAuthorizedError(string(actor.Role), "cancel order")
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = DeliveryCancelled
	o.deliveryOtp = ""
	o.otpExpiresAt = nil
	o.appendHistory(newStatus, actor.ID, actor.Role, now, map[string]string{"reason": reason})
	return nil
}

// FailAttempt records an unsuccessful delivery attempt with a reason code and
// free-text notes (capped at FailureNotesMaxLen characters).
func (o *Order) FailAttempt(actor Actor, reasonCode, notes string, now time.Time) error {
	if err := o.requireAssignedRider(actor, "report failed attempt"); err != nil {
		return err
	}
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reason code")
	}
	if len(notes) > FailureNotesMaxLen {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, FailureNotesMaxLen)
	}

	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = DeliveryCancelled
	o.deliveryOtp = ""
	o.otpExpiresAt = nil
	o.appendHistory(newStatus, actor.ID, actor.Role, now, map[string]string{
		"reason_code": reasonCode,
		"notes":       notes,
	})
	return nil
}

// RecordRiderLocation stores the last accepted rider position while the
// delivery leg is active.
func (o *Order) RecordRiderLocation(actor Actor, point kernel.GeoPoint, at time.Time) error {
	if err := o.requireAssignedRider(actor, "report location"); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	o.riderLocation = &RiderLocation{Point: point, UpdatedAt: at}
	return nil
}

func (o *Order) openOfferFor(actor Actor) (int, error) {
	if actor.Role != RoleRider {
		return 0, errs.NewNotAuthorizedError(string(actor.Role), "respond to delivery offer")
	}

	for i, e := range o.assignmentHistory {
		if e.Status() == AssignmentOffered {
			if !e.RiderID().IsEqual(actor.ID) {
				return 0, errs.NewNotAuthorizedError(string(actor.Role), "respond to an offer made to another rider")
			}
			return i, nil
		}
	}
	return 0, ErrNoOpenOffer
}

func (o *Order) requireAssignedRider(actor Actor, action string) error {
	if actor.Role != RoleRider {
		return errs.NewNotAuthorizedError(string(actor.Role), action)
	}
	if o.riderID == nil || !o.riderID.IsEqual(actor.ID) || !o.deliveryStatus.IsActive() {
		return errs.NewRiderNotAssignedError(actor.ID.String(), o.id.String())
	}
	return nil
}

func (o *Order) appendHistory(status Status, actorID kernel.UUID, role Role, at time.Time, meta map[string]string) {
	o.history = append(o.history, HistoryEntry{
		Status:    status,
		Actor:     actorID,
		ActorRole: role,
		At:        at,
		Meta:      meta,
	})
}
