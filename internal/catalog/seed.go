package catalog

import (
	"fmt"

	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// DemoItems is the three-item reference catalog: two electronics and one perishable.
func DemoItems() []Params {
	return []Params{
		{Name: "Laptop", Price: pricing.FromFloat(1000), Quantity: 10, Weight: 2.5},
		{Name: "Tablet", Price: pricing.FromFloat(500), Quantity: 20, Weight: 0.8},
		{Name: "Cheese", Price: pricing.FromFloat(5.2), Quantity: 100, Weight: 0.1, Perishable: true},
	}
}

// Seed adds every entry of params to the store and returns the created items in order.
func Seed(s *Store, params []Params) ([]*Item, error) {
	items := make([]*Item, 0, len(params))
	for _, p := range params {
		item, err := s.Add(p)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", p.Name, err)
		}
		items = append(items, item)
	}
	return items, nil
}
