package rider

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

// Domain errors for rider operations.
var (
	// ErrNameIsRequired is returned when attempting to create a rider without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a rider without a phone number.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrRiderIsNotConstructed is returned when using an improperly initialized Rider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")
	// ErrRiderIsBusy is returned when engaging a rider that already carries an active order.
	ErrRiderIsBusy = errors.New("rider already has an active order")
	// ErrRiderHasNoActiveOrder is returned when releasing a rider that carries nothing.
	ErrRiderHasNoActiveOrder = errors.New("rider has no active order")
)

// DutyStatus is the rider's availability for dispatch.
type DutyStatus string

const (
	DutyOff DutyStatus = "off_duty"
	DutyOn  DutyStatus = "on_duty"
)

// DutyStatusFromString parses a persisted duty status value.
func DutyStatusFromString(s string) (DutyStatus, error) {
	switch DutyStatus(s) {
	case DutyOff, DutyOn:
		return DutyStatus(s), nil
	}
	return "", errs.NewValueIsInvalidError("duty status: " + s)
}

// VehicleType describes how the rider moves.
type VehicleType string

const (
	VehicleBicycle VehicleType = "bicycle"
	VehicleScooter VehicleType = "scooter"
	VehicleBike    VehicleType = "bike"
)

// VehicleTypeFromString parses a persisted vehicle type value.
func VehicleTypeFromString(s string) (VehicleType, error) {
	switch VehicleType(s) {
	case VehicleBicycle, VehicleScooter, VehicleBike:
		return VehicleType(s), nil
	}
	return "", errs.NewValueIsInvalidError("vehicle type: " + s)
}

// Rider is the aggregate root for a delivery rider. It tracks identity, duty
// status, last known position and the single order the rider is currently
// carrying. Dispatch offers one order at a time, so a busy rider is never a
// candidate for another.
type Rider struct {
	// id uniquely identifies the rider
	id kernel.UUID
	// name is the human-readable name of the rider
	name string
	// phone is the rider's contact number used by notifications
	phone string
	// vehicle describes how the rider moves, used for routing heuristics
	vehicle VehicleType
	// duty is whether the rider is accepting offers
	duty DutyStatus
	// location is the last known position, nil until the first report
	location *kernel.GeoPoint
	// locationAt is when the last position was recorded
	locationAt *time.Time
	// activeOrderID is the order the rider currently carries, nil when free
	activeOrderID *kernel.UUID
	// guard ensures the rider was properly constructed
	guard guard.ConstructorGuard
}

// NewRider creates an off-duty rider with no known position.
// This is the only way to create a valid fresh Rider instance.
func NewRider(id kernel.UUID, name, phone string, vehicle VehicleType) (*Rider, error) {
	r := &Rider{
		guard: guard.NewConstructorGuard(),
		duty:  DutyOff,
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setPhone(phone),
		r.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRider reconstructs a Rider aggregate from persistent storage,
// preserving duty status, position and the active order at the time of
// persistence.
func RestoreRider(
	id kernel.UUID,
	name, phone string,
	vehicle VehicleType,
	duty DutyStatus,
	location *kernel.GeoPoint,
	locationAt *time.Time,
	activeOrderID *kernel.UUID,
) (*Rider, error) {
	r := &Rider{
		guard:         guard.NewConstructorGuard(),
		duty:          duty,
		location:      location,
		locationAt:    locationAt,
		activeOrderID: activeOrderID,
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setPhone(phone),
		r.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// IsEqual compares two riders by their unique identifiers.
func (r *Rider) IsEqual(other *Rider) bool {
	if other == nil {
		return false
	}
	return r.id.IsEqual(other.id)
}

// Validate checks the Rider was properly constructed. The zero value is
// invalid and fails this check.
func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

// ID returns the unique identifier of the rider.
func (r *Rider) ID() kernel.UUID {
	return r.id
}

// Name returns the human-readable name of the rider.
func (r *Rider) Name() string {
	return r.name
}

// Phone returns the rider's contact number.
func (r *Rider) Phone() string {
	return r.phone
}

// Vehicle returns how the rider moves.
func (r *Rider) Vehicle() VehicleType {
	return r.vehicle
}

// Duty returns whether the rider is accepting offers.
func (r *Rider) Duty() DutyStatus {
	return r.duty
}

// Location returns the last known position, nil until the first report.
func (r *Rider) Location() *kernel.GeoPoint {
	return r.location
}

// LocationAt returns when the last position was recorded, nil until the
// first report.
func (r *Rider) LocationAt() *time.Time {
	return r.locationAt
}

// ActiveOrderID returns the order the rider currently carries, nil when free.
func (r *Rider) ActiveOrderID() *kernel.UUID {
	return r.activeOrderID
}

// IsAvailable reports whether the rider can receive a dispatch offer:
// on duty and not carrying an order.
func (r *Rider) IsAvailable() bool {
	return r.duty == DutyOn && r.activeOrderID == nil
}

// GoOnDuty makes the rider available for offers.
func (r *Rider) GoOnDuty() {
	r.duty = DutyOn
}

// GoOffDuty withdraws the rider from dispatch. A rider that is mid-delivery
// keeps the active order and must finish it.
func (r *Rider) GoOffDuty() {
	r.duty = DutyOff
}

// UpdateLocation records the rider's latest accepted position.
func (r *Rider) UpdateLocation(point kernel.GeoPoint, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}

	r.location = &point
	r.locationAt = &at
	return nil
}

// TakeOrder marks the rider as carrying the given order. A busy rider
// cannot take a second one.
func (r *Rider) TakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if r.activeOrderID != nil {
		return ErrRiderIsBusy
	}

	r.activeOrderID = &orderID
	return nil
}

// CompleteOrder frees the rider after the given order is delivered,
// cancelled or failed.
func (r *Rider) CompleteOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if r.activeOrderID == nil || !r.activeOrderID.IsEqual(orderID) {
		return ErrRiderHasNoActiveOrder
	}

	r.activeOrderID = nil
	return nil
}

// DistanceTo returns the great-circle distance in meters from the rider's
// last known position to the target. A rider with no known position is
// infinitely far away for dispatch purposes.
func (r *Rider) DistanceTo(target kernel.GeoPoint) (float64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if r.location == nil {
		return 0, errs.NewValueIsRequiredError("rider location")
	}

	return r.location.DistanceMeters(target)
}

// setID sets the rider's unique identifier with validation.
func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	r.id = id
	return nil
}

// setName sets the rider's name with validation.
func (r *Rider) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	r.name = name
	return nil
}

// setPhone sets the rider's contact number with validation.
func (r *Rider) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}

	r.phone = phone
	return nil
}

// setVehicle sets the rider's vehicle type with validation.
func (r *Rider) setVehicle(vehicle VehicleType) error {
	if _, err := VehicleTypeFromString(string(vehicle)); err != nil {
		return err
	}

	r.vehicle = vehicle
	return nil
}
