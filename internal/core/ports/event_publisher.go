package ports

import (
	"context"

	"lastmile/internal/core/domain/model/order"
)

// OrderEventPublisher emits an event after every order status change so
// downstream consumers (analytics, customer tracking pages) stay current.
// Publishing is best-effort: a failed publish is logged, never rolled into
// the business transaction.
type OrderEventPublisher interface {
	PublishStatusChanged(ctx context.Context, aggregate *order.Order) error
}
