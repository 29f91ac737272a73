package cart

import (
	"errors"
	"fmt"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

var (
	// ErrInsufficientStock is returned when the quantity is not positive or exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrExpiredProduct is returned when an expired perishable item is added.
	ErrExpiredProduct = errors.New("product has expired")
)

// Product is what a cart needs to know about an item at add time. Items that also satisfy
// catalog.Perishable are checked for expiry.
type Product interface {
	ID() catalog.ID
	Name() string
	UnitPrice() pricing.Money
	IsAvailable(qty int) bool
}

// Line is one (item, quantity) entry. UnitPrice is the price at the moment of the add.
type Line struct {
	ItemID    catalog.ID    `json:"itemId"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	UnitPrice pricing.Money `json:"unitPrice"`
}

// Subtotal returns UnitPrice * Quantity.
func (l Line) Subtotal() pricing.Money {
	return pricing.LineTotal(l.UnitPrice, l.Quantity)
}

// Cart accumulates lines for one shopping session.
//
// The total is accumulated when a line is added and is never recomputed, so a price change
// in the catalog after the add does not alter the total. Adding does not touch stock; two
// carts may hold more of an item than exists and the checkout commit settles who gets it.
type Cart struct {
	lines []Line
	total pricing.Money
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{total: pricing.Zero}
}

// Add validates p and appends a line for quantity units.
func (c *Cart) Add(p Product, quantity int) error {
	if quantity <= 0 || !p.IsAvailable(quantity) {
		return fmt.Errorf("%s: %w", p.Name(), ErrInsufficientStock)
	}
	if perishable, ok := p.(catalog.Perishable); ok && perishable.IsExpirable() && perishable.HasExpired() {
		return fmt.Errorf("%s: %w", p.Name(), ErrExpiredProduct)
	}
	line := Line{
		ItemID:    p.ID(),
		Name:      p.Name(),
		Quantity:  quantity,
		UnitPrice: p.UnitPrice(),
	}
	c.lines = append(c.lines, line)
	c.total = c.total.Add(line.Subtotal())
	return nil
}

// Total returns the running total.
func (c *Cart) Total() pricing.Money { return c.total }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear drops every line and resets the total. Only a committed checkout calls it.
func (c *Cart) Clear() {
	c.lines = nil
	c.total = pricing.Zero
}
