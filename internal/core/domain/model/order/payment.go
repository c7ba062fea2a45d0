package order

import "lastmile/internal/pkg/errs"

// PaymentMethod is how the customer pays for the order.
type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
	PaymentCOD        PaymentMethod = "cod"
)

// PaymentMethodFromString parses a persisted payment method.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCard, PaymentUPI, PaymentNetbanking, PaymentCOD:
		return PaymentMethod(s), nil
	default:
		return "", errs.NewValueIsInvalidError("payment method")
	}
}

// Validate checks the payment method is one of the defined values.
func (m PaymentMethod) Validate() error {
	_, err := PaymentMethodFromString(string(m))
	return err
}

// IsCOD reports whether payment is collected at the door.
func (m PaymentMethod) IsCOD() bool {
	return m == PaymentCOD
}

// PaymentStatus tracks the payment state of the order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentStatusFromString parses a persisted payment status.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return PaymentStatus(s), nil
	default:
		return "", errs.NewValueIsInvalidError("payment status")
	}
}

// Validate checks the payment status is one of the defined values.
func (s PaymentStatus) Validate() error {
	_, err := PaymentStatusFromString(string(s))
	return err
}
