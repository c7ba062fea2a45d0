package order

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// ProofType is the kind of evidence recorded at delivery completion.
type ProofType string

const (
	ProofOTP       ProofType = "otp"
	ProofPhoto     ProofType = "photo"
	ProofSignature ProofType = "signature"
)

// ProofTypeFromString parses a persisted proof type.
func ProofTypeFromString(s string) (ProofType, error) {
	switch ProofType(s) {
	case ProofOTP, ProofPhoto, ProofSignature:
		return ProofType(s), nil
	default:
		return "", errs.NewValueIsInvalidError("proof type")
	}
}

// DeliveryProof records how delivery completion was verified.
type DeliveryProof struct {
	Type       ProofType
	Value      string
	VerifiedAt time.Time
	VerifiedBy kernel.UUID
}

// RiderLocation is the last reported position of the assigned rider.
type RiderLocation struct {
	Point     kernel.GeoPoint
	UpdatedAt time.Time
}

// Earnings holds the rider-facing money split for a delivered order,
// in minor currency units.
type Earnings struct {
	DeliveryFee int64
	Tip         int64
	Commission  int64
}

// HistoryEntry is one record in the append-only status-change log.
// Entries are strictly ordered by transition time.
type HistoryEntry struct {
	Status    Status
	Actor     kernel.UUID
	ActorRole Role
	At        time.Time
	Meta      map[string]string
}
