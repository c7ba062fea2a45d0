// Package rabbit pushes delivery notifications through RabbitMQ. The service
// publishes to a topic exchange and the channel apps (customer and rider)
// bind their own queues; message delivery to devices is their concern.
package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
)

const (
	// Exchange is the topic exchange notifications are published to.
	Exchange = "lastmile.notifications"

	routingKeyOtp   = "customer.otp"
	routingKeyOffer = "rider.offer"
)

// publisherChannel is the slice of amqp.Channel the notifier needs.
type publisherChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type otpMessage struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Code       string `json:"code"`
}

type offerMessage struct {
	OrderID string `json:"order_id"`
	RiderID string `json:"rider_id"`
}

// RabbitNotifier implements ports.Notifier on an AMQP channel.
type RabbitNotifier struct {
	channel publisherChannel
}

var _ ports.Notifier = &RabbitNotifier{}

// NewRabbitNotifier creates a notifier over the given channel. The caller
// owns the connection lifecycle.
func NewRabbitNotifier(channel publisherChannel) (*RabbitNotifier, error) {
	if channel == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	return &RabbitNotifier{channel: channel}, nil
}

// DeclareExchange sets up the topic exchange the notifier publishes to.
// Idempotent; call it once at startup.
func DeclareExchange(channel *amqp.Channel) error {
	return channel.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil)
}

// NotifyOtp sends the delivery verification code to the customer.
func (n *RabbitNotifier) NotifyOtp(ctx context.Context, orderID, customerID kernel.UUID, code string) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := customerID.Validate(); err != nil {
		return err
	}
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	return n.publish(ctx, routingKeyOtp, otpMessage{
		OrderID:    orderID.String(),
		CustomerID: customerID.String(),
		Code:       code,
	})
}

// NotifyOffer tells a rider a new order is waiting for their answer.
func (n *RabbitNotifier) NotifyOffer(ctx context.Context, orderID, riderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}

	return n.publish(ctx, routingKeyOffer, offerMessage{
		OrderID: orderID.String(),
		RiderID: riderID.String(),
	})
}

func (n *RabbitNotifier) publish(ctx context.Context, key string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	err = n.channel.PublishWithContext(ctx, Exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        payload,
	})
	return errors.Wrap(err, "publish "+key)
}
