package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/cart"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

func newItem(t *testing.T, p catalog.Params) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(p)
	require.NoError(t, err)
	return item
}

func referenceItems(t *testing.T) (*catalog.Item, *catalog.Item, *catalog.Item) {
	laptop := newItem(t, catalog.Params{Name: "Laptop", Price: pricing.FromFloat(1000), Quantity: 10, Weight: 2.5})
	tablet := newItem(t, catalog.Params{Name: "Tablet", Price: pricing.FromFloat(500), Quantity: 20, Weight: 0.8})
	cheese := newItem(t, catalog.Params{Name: "Cheese", Price: pricing.FromFloat(5.2), Quantity: 100, Weight: 0.1, Perishable: true})
	return laptop, tablet, cheese
}

// plainProduct satisfies cart.Product without the perishable capability.
type plainProduct struct {
	stock int
}

func (p plainProduct) ID() catalog.ID           { return "plain" }
func (p plainProduct) Name() string             { return "plain" }
func (p plainProduct) UnitPrice() pricing.Money { return pricing.FromFloat(3) }
func (p plainProduct) IsAvailable(qty int) bool { return p.stock >= qty }

func TestAddAccumulatesTotal(t *testing.T) {
	laptop, tablet, cheese := referenceItems(t)
	c := cart.New()
	require.True(t, c.IsEmpty())

	require.NoError(t, c.Add(laptop, 1))
	require.NoError(t, c.Add(tablet, 2))
	require.NoError(t, c.Add(cheese, 3))

	require.False(t, c.IsEmpty())
	require.True(t, c.Total().Equal(pricing.FromFloat(2015.6)), "got %s", c.Total())

	lines := c.Lines()
	require.Len(t, lines, 3)
	require.Equal(t, "Laptop", lines[0].Name)
	require.Equal(t, "Tablet", lines[1].Name)
	require.Equal(t, "Cheese", lines[2].Name)
	require.Equal(t, cheese.ID(), lines[2].ItemID)
	require.Equal(t, 10, laptop.Stock(), "adding must not reserve stock")
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	laptop, _, _ := referenceItems(t)
	c := cart.New()
	for _, qty := range []int{0, -1, -100} {
		require.ErrorIs(t, c.Add(laptop, qty), cart.ErrInsufficientStock)
	}
	require.True(t, c.IsEmpty())
	require.True(t, c.Total().IsZero())
}

func TestAddRejectsQuantityAboveStock(t *testing.T) {
	laptop, _, _ := referenceItems(t)
	c := cart.New()
	require.ErrorIs(t, c.Add(laptop, 11), cart.ErrInsufficientStock)
	require.NoError(t, c.Add(laptop, 10))
}

func TestAddRejectsExpiredPerishable(t *testing.T) {
	expired := newItem(t, catalog.Params{Name: "Milk", Price: pricing.FromFloat(2), Quantity: 50, Weight: 1, Perishable: true, Expired: true})
	c := cart.New()
	err := c.Add(expired, 1)
	require.ErrorIs(t, err, cart.ErrExpiredProduct)
	require.Contains(t, err.Error(), "Milk")
	require.True(t, c.IsEmpty())
}

func TestExpiredFlagIgnoredForNonPerishable(t *testing.T) {
	item := newItem(t, catalog.Params{Name: "Shelf", Price: pricing.FromFloat(2), Quantity: 5, Weight: 1, Expired: true})
	c := cart.New()
	require.NoError(t, c.Add(item, 1))
}

func TestAddWithoutPerishableCapability(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(plainProduct{stock: 2}, 2))
	require.True(t, c.Total().Equal(pricing.FromFloat(6)))
	require.ErrorIs(t, c.Add(plainProduct{stock: 2}, 3), cart.ErrInsufficientStock)
}

func TestTotalKeepsPriceAtAddTime(t *testing.T) {
	laptop, _, _ := referenceItems(t)
	c := cart.New()
	require.NoError(t, c.Add(laptop, 1))

	laptop.SetPrice(pricing.FromFloat(1200))
	require.True(t, c.Total().Equal(pricing.FromFloat(1000)))

	require.NoError(t, c.Add(laptop, 1))
	require.True(t, c.Total().Equal(pricing.FromFloat(2200)))
	require.True(t, c.Lines()[0].UnitPrice.Equal(pricing.FromFloat(1000)))
}

func TestLinesReturnsCopy(t *testing.T) {
	laptop, _, _ := referenceItems(t)
	c := cart.New()
	require.NoError(t, c.Add(laptop, 1))
	lines := c.Lines()
	lines[0].Quantity = 99
	require.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestClear(t *testing.T) {
	laptop, _, _ := referenceItems(t)
	c := cart.New()
	require.NoError(t, c.Add(laptop, 2))
	c.Clear()
	require.True(t, c.IsEmpty())
	require.Empty(t, c.Lines())
	require.True(t, c.Total().IsZero())
}
