package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItem is one order line as submitted by the customer.
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

// CreateOrderCommand represents a customer's request to place a new delivery
// order: what to deliver, where, and how it is paid.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	dropoffLat    float64
	dropoffLng    float64
	items         []OrderItem
	paymentMethod order.PaymentMethod
	deliveryFee   int64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new delivery order.
// Validates identifiers, the drop-off coordinates, the item list and the
// payment method.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	dropoffLat, dropoffLng float64,
	items []OrderItem,
	paymentMethod string,
	deliveryFee int64,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setDropoff(dropoffLat, dropoffLng),
		cmd.setItems(items),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setDeliveryFee(deliveryFee),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns who is placing the order.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Dropoff returns the delivery destination coordinates.
func (c CreateOrderCommand) Dropoff() (float64, float64) {
	return c.dropoffLat, c.dropoffLng
}

// Items returns the order lines.
func (c CreateOrderCommand) Items() []OrderItem {
	return c.items
}

// PaymentMethod returns how the order is paid.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// DeliveryFee returns the delivery fee in minor currency units.
func (c CreateOrderCommand) DeliveryFee() int64 {
	return c.deliveryFee
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setDropoff(lat, lng float64) error {
	if _, err := kernel.NewGeoPoint(lat, lng); err != nil {
		return err
	}

	c.dropoffLat, c.dropoffLng = lat, lng
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	parsed, err := order.PaymentMethodFromString(method)
	if err != nil {
		return err
	}

	c.paymentMethod = parsed
	return nil
}

func (c *CreateOrderCommand) setDeliveryFee(fee int64) error {
	if fee < 0 {
		return errs.NewValueIsInvalidError("delivery fee")
	}

	c.deliveryFee = fee
	return nil
}
