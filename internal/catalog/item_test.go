package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

func TestNewItemValidation(t *testing.T) {
	cases := map[string]catalog.Params{
		"empty name":        {Name: "  ", Price: pricing.FromFloat(1)},
		"negative price":    {Name: "x", Price: pricing.FromFloat(-1)},
		"negative quantity": {Name: "x", Quantity: -1},
		"negative weight":   {Name: "x", Weight: -0.5},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.NewItem(params)
			require.ErrorIs(t, err, catalog.ErrInvalidItem)
		})
	}
}

func TestItemStockAndCapabilities(t *testing.T) {
	item, err := catalog.NewItem(catalog.Params{Name: "Cheese", Price: pricing.FromFloat(5.2), Quantity: 100, Weight: 0.1, Perishable: true})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID())

	require.True(t, item.IsAvailable(100))
	require.False(t, item.IsAvailable(101))

	item.DecrementStock(30)
	require.Equal(t, 70, item.Stock())
	item.IncrementStock(5)
	require.Equal(t, 75, item.Stock())

	require.True(t, item.IsShippable())
	require.True(t, item.IsExpirable())
	require.False(t, item.HasExpired())
	item.MarkExpired()
	require.True(t, item.HasExpired())

	item.SetPrice(pricing.FromFloat(6))
	require.True(t, item.UnitPrice().Equal(pricing.FromFloat(6)))
}

func TestWeightlessItemIsNotShippable(t *testing.T) {
	item, err := catalog.NewItem(catalog.Params{Name: "E-book", Price: pricing.FromFloat(12), Quantity: 1})
	require.NoError(t, err)
	require.False(t, item.IsShippable())

	var s catalog.Shippable = item
	require.Equal(t, "E-book", s.Name())
	require.Zero(t, s.Weight())
}
