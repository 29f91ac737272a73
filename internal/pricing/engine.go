package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount. Arithmetic is exact.
type Money = decimal.Decimal

// DefaultShippingFee is the flat shipping fee charged per checkout.
var DefaultShippingFee = decimal.NewFromInt(10)

// Zero is the zero amount.
var Zero = decimal.Zero

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	Shipping Money `json:"shipping"`
	Total    Money `json:"total"`
}

// LineTotal returns unitPrice * qty. Non-positive quantities price to zero.
func LineTotal(unitPrice Money, qty int) Money {
	if qty <= 0 {
		return Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// Compute builds the checkout summary for a subtotal and a flat shipping fee.
func Compute(subtotal, shipping Money) Summary {
	if shipping.IsNegative() {
		shipping = Zero
	}
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// Affordable reports whether balance covers the amount due, subtotal plus shipping. Equal
// amounts are affordable. The shipping fee is charged against the balance rather than added
// to it, so a committed checkout never leaves a negative balance. See the funds check entry
// in DESIGN.md.
func (s Summary) Affordable(balance Money) bool {
	return !s.Total.GreaterThan(balance)
}

// FromFloat converts a float amount into Money.
func FromFloat(v float64) Money {
	return decimal.NewFromFloat(v)
}

// Parse reads a decimal amount such as "10" or "5.20". Negative amounts are rejected.
func Parse(value string) (Money, error) {
	m, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	if m.IsNegative() {
		return Zero, fmt.Errorf("amount %q must not be negative", value)
	}
	return m, nil
}
