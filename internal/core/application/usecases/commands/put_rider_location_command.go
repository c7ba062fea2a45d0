package commands

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrPutRiderLocationCommandIsNotConstructed = errors.New(
	"PutRiderLocationCommand must be created via NewPutRiderLocationCommand constructor",
)

// PutRiderLocationCommand represents a rider reporting an accepted GPS
// sample. The device pipeline has already filtered jitter; the server trusts
// what arrives here apart from basic range checks. The heading is normalized
// into [0, 360) on construction.
type PutRiderLocationCommand struct { //nolint:recvcheck //using for validation
	riderID    kernel.UUID
	lat        float64
	lng        float64
	heading    float64
	speedKmh   float64
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewPutRiderLocationCommand creates a command carrying one location sample.
func NewPutRiderLocationCommand(
	riderID kernel.UUID,
	lat, lng, heading, speedKmh float64,
	recordedAt time.Time,
) (PutRiderLocationCommand, error) {
	cmd := PutRiderLocationCommand{
		guard:      guard.NewConstructorGuard(),
		heading:    kernel.NormalizeHeading(heading),
		recordedAt: recordedAt,
	}

	if err := errors.Join(
		cmd.setRiderID(riderID),
		cmd.setPoint(lat, lng),
		cmd.setSpeed(speedKmh),
	); err != nil {
		return PutRiderLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PutRiderLocationCommand) Validate() error {
	return c.guard.Validate(ErrPutRiderLocationCommandIsNotConstructed)
}

// RiderID returns the reporting rider.
func (c PutRiderLocationCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Point returns the reported position.
func (c PutRiderLocationCommand) Point() (float64, float64) {
	return c.lat, c.lng
}

// Heading returns the travel direction in degrees, [0, 360).
func (c PutRiderLocationCommand) Heading() float64 {
	return c.heading
}

// SpeedKmh returns the reported speed.
func (c PutRiderLocationCommand) SpeedKmh() float64 {
	return c.speedKmh
}

// RecordedAt returns when the device recorded the sample.
func (c PutRiderLocationCommand) RecordedAt() time.Time {
	return c.recordedAt
}

func (c *PutRiderLocationCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *PutRiderLocationCommand) setPoint(lat, lng float64) error {
	if _, err := kernel.NewGeoPoint(lat, lng); err != nil {
		return err
	}

	c.lat, c.lng = lat, lng
	return nil
}

func (c *PutRiderLocationCommand) setSpeed(speedKmh float64) error {
	if speedKmh < 0 {
		return errs.NewValueIsInvalidError("speed")
	}

	c.speedKmh = speedKmh
	return nil
}
