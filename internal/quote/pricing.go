package quote

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors surfaced before any persistence or network activity.
var (
	ErrNoMachineSelected = errors.New("no_machine_selected")
	ErrInvalidQuantity   = errors.New("quantity_must_be_at_least_1")
	ErrInvalidDiscount   = errors.New("discount_out_of_range")
	ErrInvalidPrice      = errors.New("price_must_be_positive")
)

// Breakdown is the result of the pricing computation.
type Breakdown struct {
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// Compute applies the quotation arithmetic:
//
//	subtotal       = price * quantity
//	discountAmount = subtotal * discountPercent / 100
//	total          = subtotal - discountAmount
//
// Quantity must be >= 1 and discountPercent within [0,100]. Out-of-range
// values are rejected, never clamped: a silently clamped discount would hide
// a form bug and a discount above 100 would produce a negative total.
func Compute(price float64, quantity int, discountPercent float64) (Breakdown, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Breakdown{}, ErrInvalidPrice
	}
	if quantity < 1 {
		return Breakdown{}, ErrInvalidQuantity
	}
	if math.IsNaN(discountPercent) || discountPercent < 0 || discountPercent > 100 {
		return Breakdown{}, ErrInvalidDiscount
	}
	subtotal := price * float64(quantity)
	discount := subtotal * discountPercent / 100
	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal - discount,
	}, nil
}

// BuildNotes embeds address, quantity and discount into the free-text notes
// field the way the quotation form historically did. It is a display
// convenience, not structured data.
func BuildNotes(address string, quantity int, discountPercent float64) string {
	return fmt.Sprintf("Dirección: %s\nCantidad: %d\nDescuento: %g%%", address, quantity, discountPercent)
}
