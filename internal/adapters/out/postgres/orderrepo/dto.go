// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Scalar lifecycle fields are first-class columns so read models can filter on
// them; the append-only logs (items, assignment history, status history) are
// stored as JSONB documents.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`

	DropoffLat float64
	DropoffLng float64

	Items       []byte `gorm:"type:jsonb"`
	TotalAmount int64

	PaymentMethod string
	PaymentStatus string

	Status         string `gorm:"index"`
	DeliveryStatus string `gorm:"index"`

	RiderID           *uuid.UUID `gorm:"type:uuid;index"`
	AssignmentHistory []byte     `gorm:"type:jsonb"`

	DeliveryOtp  string
	OtpExpiresAt *time.Time

	Proof []byte `gorm:"type:jsonb"`

	RiderLat        *float64
	RiderLng        *float64
	RiderLocationAt *time.Time

	DeliveryFee int64
	Tip         int64
	Commission  int64

	History []byte `gorm:"type:jsonb"`

	PickedUpAt  *time.Time
	InTransitAt *time.Time
	ArrivedAt   *time.Time
	DeliveredAt *time.Time

	CreatedAt time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

type itemDTO struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type assignmentEntryDTO struct {
	RiderID      uuid.UUID  `json:"rider_id"`
	Status       string     `json:"status"`
	OfferedAt    time.Time  `json:"offered_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	RejectedAt   *time.Time `json:"rejected_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
}

type historyEntryDTO struct {
	Status    string            `json:"status"`
	Actor     uuid.UUID         `json:"actor"`
	ActorRole string            `json:"actor_role"`
	At        time.Time         `json:"at"`
	Meta      map[string]string `json:"meta,omitempty"`
}

type proofDTO struct {
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	VerifiedAt time.Time `json:"verified_at"`
	VerifiedBy uuid.UUID `json:"verified_by"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	assignments := make([]assignmentEntryDTO, 0, len(aggregate.AssignmentHistory()))
	for _, entry := range aggregate.AssignmentHistory() {
		assignments = append(assignments, assignmentEntryDTO{
			RiderID:      entry.RiderID().Bytes(),
			Status:       string(entry.Status()),
			OfferedAt:    entry.OfferedAt(),
			AcceptedAt:   entry.AcceptedAt(),
			RejectedAt:   entry.RejectedAt(),
			RejectReason: entry.RejectReason(),
		})
	}
	assignmentsJSON, err := json.Marshal(assignments)
	if err != nil {
		return OrderDTO{}, err
	}

	history := make([]historyEntryDTO, 0, len(aggregate.History()))
	for _, entry := range aggregate.History() {
		history = append(history, historyEntryDTO{
			Status:    entry.Status.String(),
			Actor:     entry.Actor.Bytes(),
			ActorRole: string(entry.ActorRole),
			At:        entry.At,
			Meta:      entry.Meta,
		})
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:                aggregate.ID().Bytes(),
		CustomerID:        aggregate.CustomerID().Bytes(),
		DropoffLat:        aggregate.Dropoff().Lat(),
		DropoffLng:        aggregate.Dropoff().Lng(),
		Items:             itemsJSON,
		TotalAmount:       aggregate.TotalAmount(),
		PaymentMethod:     string(aggregate.PaymentMethod()),
		PaymentStatus:     string(aggregate.PaymentStatus()),
		Status:            aggregate.Status().String(),
		DeliveryStatus:    aggregate.DeliveryStatus().String(),
		AssignmentHistory: assignmentsJSON,
		DeliveryOtp:       aggregate.DeliveryOtp(),
		OtpExpiresAt:      aggregate.OtpExpiresAt(),
		DeliveryFee:       aggregate.Earnings().DeliveryFee,
		Tip:               aggregate.Earnings().Tip,
		Commission:        aggregate.Earnings().Commission,
		History:           historyJSON,
		PickedUpAt:        aggregate.PickedUpAt(),
		InTransitAt:       aggregate.InTransitAt(),
		ArrivedAt:         aggregate.ArrivedAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
	}

	if rider := aggregate.Rider(); rider != nil {
		raw := rider.Bytes()
		dto.RiderID = &raw
	}

	if proof := aggregate.DeliveryProof(); proof != nil {
		proofJSON, proofErr := json.Marshal(proofDTO{
			Type:       string(proof.Type),
			Value:      proof.Value,
			VerifiedAt: proof.VerifiedAt,
			VerifiedBy: proof.VerifiedBy.Bytes(),
		})
		if proofErr != nil {
			return OrderDTO{}, proofErr
		}
		dto.Proof = proofJSON
	}

	if loc := aggregate.RiderLocation(); loc != nil {
		lat, lng := loc.Point.Lat(), loc.Point.Lng()
		at := loc.UpdatedAt
		dto.RiderLat = &lat
		dto.RiderLng = &lng
		dto.RiderLocationAt = &at
	}

	if entries := aggregate.History(); len(entries) > 0 {
		dto.CreatedAt = entries[0].At
	}

	return dto, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder; enum columns are
// parsed back through their FromString guards so corrupt rows fail loudly.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.DropoffLat, dto.DropoffLng)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	deliveryStatus, err := order.DeliveryStatusFromString(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	paymentMethod, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	assignments, err := assignmentsToDomain(dto.AssignmentHistory)
	if err != nil {
		return nil, err
	}

	history, err := historyToDomain(dto.History)
	if err != nil {
		return nil, err
	}

	var proof *order.DeliveryProof
	if len(dto.Proof) > 0 {
		proof, err = proofToDomain(dto.Proof)
		if err != nil {
			return nil, err
		}
	}

	var riderLocation *order.RiderLocation
	if dto.RiderLat != nil && dto.RiderLng != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.RiderLat, *dto.RiderLng)
		if geoErr != nil {
			return nil, geoErr
		}
		riderLocation = &order.RiderLocation{Point: point}
		if dto.RiderLocationAt != nil {
			riderLocation.UpdatedAt = *dto.RiderLocationAt
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                id,
		CustomerID:        customerID,
		Dropoff:           dropoff,
		Items:             items,
		TotalAmount:       dto.TotalAmount,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     paymentStatus,
		Status:            status,
		DeliveryStatus:    deliveryStatus,
		RiderID:           riderID,
		AssignmentHistory: assignments,
		DeliveryOtp:       dto.DeliveryOtp,
		OtpExpiresAt:      dto.OtpExpiresAt,
		DeliveryProof:     proof,
		RiderLocation:     riderLocation,
		Earnings: order.Earnings{
			DeliveryFee: dto.DeliveryFee,
			Tip:         dto.Tip,
			Commission:  dto.Commission,
		},
		History:     history,
		PickedUpAt:  dto.PickedUpAt,
		InTransitAt: dto.InTransitAt,
		ArrivedAt:   dto.ArrivedAt,
		DeliveredAt: dto.DeliveredAt,
	})
}

func itemsToDomain(raw []byte) ([]order.Item, error) {
	var dtos []itemDTO
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &dtos); err != nil {
			return nil, err
		}
	}

	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := order.NewItem(dto.Name, dto.Quantity, dto.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func assignmentsToDomain(raw []byte) ([]order.AssignmentEntry, error) {
	var dtos []assignmentEntryDTO
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &dtos); err != nil {
			return nil, err
		}
	}

	entries := make([]order.AssignmentEntry, 0, len(dtos))
	for _, dto := range dtos {
		riderID, err := kernel.UUIDFromBytes(dto.RiderID[:])
		if err != nil {
			return nil, err
		}
		status, err := order.AssignmentStatusFromString(dto.Status)
		if err != nil {
			return nil, err
		}
		entries = append(entries, order.RestoreAssignmentEntry(
			riderID, status, dto.OfferedAt, dto.AcceptedAt, dto.RejectedAt, dto.RejectReason))
	}
	return entries, nil
}

func historyToDomain(raw []byte) ([]order.HistoryEntry, error) {
	var dtos []historyEntryDTO
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &dtos); err != nil {
			return nil, err
		}
	}

	entries := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		actor, err := kernel.UUIDFromBytes(dto.Actor[:])
		if err != nil {
			return nil, err
		}
		status, err := order.StatusFromString(dto.Status)
		if err != nil {
			return nil, err
		}
		role, err := order.RoleFromString(dto.ActorRole)
		if err != nil {
			return nil, err
		}
		entries = append(entries, order.HistoryEntry{
			Status:    status,
			Actor:     actor,
			ActorRole: role,
			At:        dto.At,
			Meta:      dto.Meta,
		})
	}
	return entries, nil
}

func proofToDomain(raw []byte) (*order.DeliveryProof, error) {
	var dto proofDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}

	proofType, err := order.ProofTypeFromString(dto.Type)
	if err != nil {
		return nil, err
	}
	verifiedBy, err := kernel.UUIDFromBytes(dto.VerifiedBy[:])
	if err != nil {
		return nil, err
	}

	return &order.DeliveryProof{
		Type:       proofType,
		Value:      dto.Value,
		VerifiedAt: dto.VerifiedAt,
		VerifiedBy: verifiedBy,
	}, nil
}
