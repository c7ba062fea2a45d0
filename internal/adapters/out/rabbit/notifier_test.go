package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastmile/internal/core/domain/model/kernel"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type capturingChannel struct {
	published []published
	err       error
}

func (c *capturingChannel) PublishWithContext(
	_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing,
) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestNotifyOtp_PublishesToCustomerRoutingKey(t *testing.T) {
	channel := &capturingChannel{}
	notifier, err := NewRabbitNotifier(channel)
	require.NoError(t, err)

	orderID, customerID := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, notifier.NotifyOtp(context.Background(), orderID, customerID, "4921"))

	require.Len(t, channel.published, 1)
	p := channel.published[0]
	assert.Equal(t, Exchange, p.exchange)
	assert.Equal(t, "customer.otp", p.key)
	assert.Equal(t, "application/json", p.msg.ContentType)

	var msg otpMessage
	require.NoError(t, json.Unmarshal(p.msg.Body, &msg))
	assert.Equal(t, orderID.String(), msg.OrderID)
	assert.Equal(t, customerID.String(), msg.CustomerID)
	assert.Equal(t, "4921", msg.Code)
}

func TestNotifyOtp_RequiresCode(t *testing.T) {
	notifier, err := NewRabbitNotifier(&capturingChannel{})
	require.NoError(t, err)

	err = notifier.NotifyOtp(context.Background(), kernel.NewUUID(), kernel.NewUUID(), "")
	require.Error(t, err)
}

func TestNotifyOffer_PublishesToRiderRoutingKey(t *testing.T) {
	channel := &capturingChannel{}
	notifier, err := NewRabbitNotifier(channel)
	require.NoError(t, err)

	orderID, riderID := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, notifier.NotifyOffer(context.Background(), orderID, riderID))

	require.Len(t, channel.published, 1)
	assert.Equal(t, "rider.offer", channel.published[0].key)

	var msg offerMessage
	require.NoError(t, json.Unmarshal(channel.published[0].msg.Body, &msg))
	assert.Equal(t, orderID.String(), msg.OrderID)
	assert.Equal(t, riderID.String(), msg.RiderID)
}

func TestNotify_BrokerFailurePropagates(t *testing.T) {
	channel := &capturingChannel{err: errors.New("channel closed")}
	notifier, err := NewRabbitNotifier(channel)
	require.NoError(t, err)

	err = notifier.NotifyOffer(context.Background(), kernel.NewUUID(), kernel.NewUUID())
	require.Error(t, err)
}

func TestNewRabbitNotifier_RequiresChannel(t *testing.T) {
	_, err := NewRabbitNotifier(nil)
	require.Error(t, err)
}
