package shipping_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/events"
	"github.com/noah-isme/toko-checkout/internal/pricing"
	"github.com/noah-isme/toko-checkout/internal/shipping"
)

func item(t *testing.T, name string, weight float64) *catalog.Item {
	t.Helper()
	it, err := catalog.NewItem(catalog.Params{Name: name, Price: pricing.FromFloat(1), Quantity: 1, Weight: weight})
	require.NoError(t, err)
	return it
}

func TestDispatchEmitsOneRecordPerItem(t *testing.T) {
	var buf bytes.Buffer
	store := &events.MemoryStore{}
	d := shipping.LogDispatcher{
		Logger: zerolog.New(&buf),
		Events: &events.Bus{Store: store},
	}
	laptop := item(t, "Laptop", 2.5)
	cheese := item(t, "Cheese", 0.1)

	shipments := d.Dispatch(context.Background(), []catalog.Shippable{laptop, cheese})
	require.Equal(t, []shipping.Shipment{{Name: "Laptop", Weight: 2.5}, {Name: "Cheese", Weight: 0.1}}, shipments)

	var names []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		require.Equal(t, "shipping product", line["message"])
		names = append(names, line["name"].(string))
	}
	require.Equal(t, []string{"Laptop", "Cheese"}, names)

	recorded := store.List(events.TopicShipmentDispatched)
	require.Len(t, recorded, 2)
	require.Equal(t, string(laptop.ID()), recorded[0].AggregateID)
	require.JSONEq(t, `{"name":"Cheese","weight":0.1}`, string(recorded[1].Payload))
}

func TestDispatchEmptyIsNoop(t *testing.T) {
	var buf bytes.Buffer
	d := shipping.LogDispatcher{Logger: zerolog.New(&buf)}
	require.Empty(t, d.Dispatch(context.Background(), nil))
	require.Zero(t, buf.Len())
}

func TestFormatShipment(t *testing.T) {
	require.Equal(t, "Shipping product: Laptop and with weight: 2.5", shipping.FormatShipment(shipping.Shipment{Name: "Laptop", Weight: 2.5}))
	require.Equal(t, "Shipping product: Cheese and with weight: 0.1", shipping.FormatShipment(shipping.Shipment{Name: "Cheese", Weight: 0.1}))
}
