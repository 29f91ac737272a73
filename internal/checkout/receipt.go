package checkout

import (
	"github.com/noah-isme/toko-checkout/internal/cart"
	"github.com/noah-isme/toko-checkout/internal/pricing"
	"github.com/noah-isme/toko-checkout/internal/shipping"
)

// Status is the business outcome of a checkout. Only StatusCompleted changes any state.
type Status string

const (
	StatusCompleted         Status = "completed"
	StatusEmptyCart         Status = "empty_cart"
	StatusInsufficientFunds Status = "insufficient_funds"
	StatusOutOfStock        Status = "out_of_stock"
)

// Receipt reports what a checkout did. Rejections carry the amounts that were evaluated and
// the unchanged balance.
type Receipt struct {
	CustomerID string              `json:"customerId"`
	Status     Status              `json:"status"`
	State      State               `json:"state"`
	Subtotal   pricing.Money       `json:"subtotal"`
	Shipping   pricing.Money       `json:"shipping"`
	Total      pricing.Money       `json:"total"`
	Balance    pricing.Money       `json:"balance"`
	Lines      []cart.Line         `json:"lines,omitempty"`
	Shipments  []shipping.Shipment `json:"shipments,omitempty"`
	Reason     string              `json:"reason,omitempty"`
}

// Completed reports whether the checkout committed.
func (r Receipt) Completed() bool {
	return r.Status == StatusCompleted
}

// Text renders the receipt as console lines.
func (r Receipt) Text() []string {
	switch r.Status {
	case StatusEmptyCart:
		return []string{"Your cart is empty."}
	case StatusInsufficientFunds:
		return []string{"Insufficient balance."}
	case StatusOutOfStock:
		return []string{"Some items are no longer in stock: " + r.Reason}
	}
	out := []string{
		"Order Subtotal: " + r.Subtotal.String(),
		"Shipping Cost: " + r.Shipping.String(),
		"Total Amount: " + r.Total.String(),
		"Checkout successful! Your new balance is: " + r.Balance.String(),
	}
	for _, s := range r.Shipments {
		out = append(out, shipping.FormatShipment(s))
	}
	return out
}
