package order

import (
	"fmt"

	"lastmile/internal/pkg/errs"
)

// Item is a single order line: a product name, quantity and unit price.
// Prices are stored in minor currency units (paise) to avoid float drift.
type Item struct {
	name      string
	quantity  int
	unitPrice int64
}

// NewItem creates a validated order line.
func NewItem(name string, quantity int, unitPrice int64) (Item, error) {
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("item quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPrice < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("item unit price",
			fmt.Errorf("%d is negative", unitPrice))
	}

	return Item{name: name, quantity: quantity, unitPrice: unitPrice}, nil
}

// Name returns the product name.
func (i Item) Name() string { return i.name }

// Quantity returns the ordered quantity.
func (i Item) Quantity() int { return i.quantity }

// UnitPrice returns the price per unit in minor currency units.
func (i Item) UnitPrice() int64 { return i.unitPrice }

// Subtotal returns quantity times unit price.
func (i Item) Subtotal() int64 { return int64(i.quantity) * i.unitPrice }
