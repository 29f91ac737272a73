package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// ErrInvalidItem is returned when item parameters violate the catalog constraints.
var ErrInvalidItem = errors.New("invalid catalog item")

// ID identifies an item inside the catalog store.
type ID string

// Shippable is satisfied by items that may need physical delivery.
type Shippable interface {
	Name() string
	Weight() float64
	IsShippable() bool
}

// Perishable is satisfied by items that carry an expiration state.
type Perishable interface {
	IsExpirable() bool
	HasExpired() bool
}

// Params describes a new catalog item. Expired defaults to false.
type Params struct {
	Name       string
	Price      pricing.Money
	Quantity   int
	Weight     float64
	Perishable bool
	Expired    bool
}

// Item is a sellable unit. Its stock and price are the canonical state referenced by carts.
type Item struct {
	id         ID
	name       string
	price      pricing.Money
	stock      int
	weight     float64
	perishable bool
	expired    bool
}

// View is the JSON representation of an item.
type View struct {
	ID         ID            `json:"id"`
	Name       string        `json:"name"`
	Price      pricing.Money `json:"price"`
	Stock      int           `json:"stock"`
	Weight     float64       `json:"weight"`
	Perishable bool          `json:"perishable"`
	Expired    bool          `json:"expired"`
	Shippable  bool          `json:"shippable"`
}

// NewItem validates p and builds an item with a fresh identifier.
func NewItem(p Params) (*Item, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("name is required: %w", ErrInvalidItem)
	case p.Price.IsNegative():
		return nil, fmt.Errorf("price must not be negative: %w", ErrInvalidItem)
	case p.Quantity < 0:
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrInvalidItem)
	case p.Weight < 0:
		return nil, fmt.Errorf("weight must not be negative: %w", ErrInvalidItem)
	}
	return &Item{
		id:         ID(uuid.NewString()),
		name:       name,
		price:      p.Price,
		stock:      p.Quantity,
		weight:     p.Weight,
		perishable: p.Perishable,
		expired:    p.Expired,
	}, nil
}

func (i *Item) ID() ID                   { return i.id }
func (i *Item) Name() string             { return i.name }
func (i *Item) UnitPrice() pricing.Money { return i.price }
func (i *Item) Stock() int               { return i.stock }
func (i *Item) Weight() float64          { return i.weight }

// IsAvailable reports whether at least qty units are in stock.
func (i *Item) IsAvailable(qty int) bool {
	return i.stock >= qty
}

// DecrementStock removes qty units. The caller must have checked IsAvailable(qty).
func (i *Item) DecrementStock(qty int) {
	i.stock -= qty
}

// IncrementStock restocks qty units.
func (i *Item) IncrementStock(qty int) {
	i.stock += qty
}

// SetPrice changes the unit price for future cart additions. Existing cart lines keep the
// price they were added at.
func (i *Item) SetPrice(price pricing.Money) {
	i.price = price
}

// IsShippable reports whether the item has physical weight.
func (i *Item) IsShippable() bool { return i.weight > 0 }

// IsExpirable reports whether the item is perishable.
func (i *Item) IsExpirable() bool { return i.perishable }

// HasExpired returns the externally set expiration flag.
func (i *Item) HasExpired() bool { return i.expired }

// MarkExpired flags the item as expired.
func (i *Item) MarkExpired() { i.expired = true }

// View returns a snapshot of the item.
func (i *Item) View() View {
	return View{
		ID:         i.id,
		Name:       i.name,
		Price:      i.price,
		Stock:      i.stock,
		Weight:     i.weight,
		Perishable: i.perishable,
		Expired:    i.expired,
		Shippable:  i.IsShippable(),
	}
}

var (
	_ Shippable  = (*Item)(nil)
	_ Perishable = (*Item)(nil)
)
