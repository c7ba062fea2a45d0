package http

import "time"

// Error is the uniform error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	DropoffLat    float64            `json:"dropoff_lat"`
	DropoffLng    float64            `json:"dropoff_lng"`
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	DeliveryFee   int64              `json:"delivery_fee"`
}

// CreateOrderResponse returns the server-assigned order identifier.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

// CancelOrderRequest is the body of POST /api/v1/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// RespondOfferRequest is the body of POST /api/v1/orders/:id/respond.
type RespondOfferRequest struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// UpdateDeliveryStatusRequest is the body of POST /api/v1/orders/:id/status.
type UpdateDeliveryStatusRequest struct {
	Milestone string `json:"milestone"`
}

// VerifyOtpRequest is the body of POST /api/v1/orders/:id/verify-otp.
type VerifyOtpRequest struct {
	Code string `json:"code"`
}

// CollectCodRequest is the body of POST /api/v1/orders/:id/cod.
type CollectCodRequest struct {
	Mode           string `json:"mode"`
	IdempotencyKey string `json:"idempotency_key"`
}

// FailedAttemptRequest is the body of POST /api/v1/orders/:id/failed-attempt.
type FailedAttemptRequest struct {
	ReasonCode string `json:"reason_code"`
	Notes      string `json:"notes,omitempty"`
}

// CreateRiderRequest is the body of POST /api/v1/riders.
type CreateRiderRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// CreateRiderResponse returns the server-assigned rider identifier.
type CreateRiderResponse struct {
	RiderID string `json:"rider_id"`
}

// SetDutyRequest is the body of PUT /api/v1/riders/duty.
type SetDutyRequest struct {
	Duty string `json:"duty"`
}

// PutLocationRequest is the body of POST /api/v1/riders/location.
type PutLocationRequest struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Heading    float64   `json:"heading"`
	SpeedKmh   float64   `json:"speed_kmh"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RiderResponse is one rider in GET /api/v1/riders.
type RiderResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Vehicle string   `json:"vehicle"`
	Duty    string   `json:"duty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// RouteStopResponse is one order on the rider's active route.
type RouteStopResponse struct {
	OrderID        string  `json:"order_id"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	Status         string  `json:"status"`
	DeliveryStatus string  `json:"delivery_status"`
	PaymentMethod  string  `json:"payment_method"`
	TotalAmount    int64   `json:"total_amount"`
}

// RiderTrackResponse is the rider's live position in the tracking view.
type RiderTrackResponse struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Heading   float64   `json:"heading"`
	SpeedKmh  float64   `json:"speed_kmh"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackOrderResponse is the body of GET /api/v1/orders/:id/track.
type TrackOrderResponse struct {
	OrderID        string              `json:"order_id"`
	Status         string              `json:"status"`
	DeliveryStatus string              `json:"delivery_status"`
	Rider          *RiderTrackResponse `json:"rider,omitempty"`
}
