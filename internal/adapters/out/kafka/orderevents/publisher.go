// Package orderevents publishes order status changes to a Kafka topic.
// Messages are keyed by order ID so every consumer sees a single order's
// lifecycle in order.
package orderevents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
)

// DefaultTopic is the topic order status events are published to.
const DefaultTopic = "order-status-changed"

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// statusChangedEvent is the wire shape of one status change.
type statusChangedEvent struct {
	OrderID        string    `json:"order_id"`
	CustomerID     string    `json:"customer_id"`
	Status         string    `json:"status"`
	DeliveryStatus string    `json:"delivery_status"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentStatus  string    `json:"payment_status"`
	RiderID        string    `json:"rider_id,omitempty"`
	TotalAmount    int64     `json:"total_amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// KafkaOrderEventPublisher implements ports.OrderEventPublisher on a Kafka writer.
type KafkaOrderEventPublisher struct {
	writer messageWriter
	now    func() time.Time
}

var _ ports.OrderEventPublisher = &KafkaOrderEventPublisher{}

// NewKafkaOrderEventPublisher creates a publisher over the given writer.
func NewKafkaOrderEventPublisher(writer messageWriter) (*KafkaOrderEventPublisher, error) {
	if writer == nil {
		return nil, errs.NewValueIsRequiredError("writer")
	}
	return &KafkaOrderEventPublisher{writer: writer, now: time.Now}, nil
}

// NewWriter builds a kafka.Writer with the settings the publisher expects:
// order-ID hashing for partition affinity and snappy compression.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Compression:  kafka.Snappy,
		RequiredAcks: kafka.RequireOne,
	}
}

// PublishStatusChanged emits the order's current state as one event.
func (p *KafkaOrderEventPublisher) PublishStatusChanged(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	event := statusChangedEvent{
		OrderID:        aggregate.ID().String(),
		CustomerID:     aggregate.CustomerID().String(),
		Status:         aggregate.Status().String(),
		DeliveryStatus: aggregate.DeliveryStatus().String(),
		PaymentMethod:  string(aggregate.PaymentMethod()),
		PaymentStatus:  string(aggregate.PaymentStatus()),
		TotalAmount:    aggregate.TotalAmount(),
		OccurredAt:     p.now().UTC(),
	}
	if riderID := aggregate.Rider(); riderID != nil {
		event.RiderID = riderID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	return errors.Wrap(err, "publish order status event")
}
