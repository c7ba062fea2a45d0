package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
)

// Notifier pushes out-of-band messages to the people involved in a delivery.
// Implementations fan the messages out through a broker; delivery to the
// actual device is someone else's concern.
type Notifier interface {
	// NotifyOtp sends the delivery verification code to the customer.
	// The rider never sees the code.
	NotifyOtp(ctx context.Context, orderID, customerID kernel.UUID, code string) error

	// NotifyOffer tells a rider a new order is waiting for their answer.
	NotifyOffer(ctx context.Context, orderID, riderID kernel.UUID) error
}
