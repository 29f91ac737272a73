package shipping

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/events"
	"github.com/noah-isme/toko-checkout/internal/obs"
)

// Shipment is the record emitted for one dispatched item.
type Shipment struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Dispatcher hands physically shippable items over for delivery. It cannot fail; an empty
// input is a no-op.
type Dispatcher interface {
	Dispatch(ctx context.Context, items []catalog.Shippable) []Shipment
}

// LogDispatcher records one structured log line and one domain event per item.
type LogDispatcher struct {
	Logger zerolog.Logger
	Events *events.Bus
}

// Dispatch emits a shipment record for each item in order.
func (d LogDispatcher) Dispatch(ctx context.Context, items []catalog.Shippable) []Shipment {
	if len(items) == 0 {
		return nil
	}
	out := make([]Shipment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		s := Shipment{Name: item.Name(), Weight: item.Weight()}
		out = append(out, s)
		d.Logger.Info().
			Str("name", s.Name).
			Float64("weight", s.Weight).
			Msg("shipping product")
		d.emit(ctx, item, s)
	}
	obs.ObserveShipments(len(out))
	return out
}

func (d LogDispatcher) emit(ctx context.Context, item catalog.Shippable, s Shipment) {
	if d.Events == nil {
		return
	}
	aggregate := s.Name
	if identified, ok := item.(interface{ ID() catalog.ID }); ok {
		aggregate = string(identified.ID())
	}
	if _, err := d.Events.Emit(ctx, events.TopicShipmentDispatched, aggregate, s); err != nil {
		d.Logger.Warn().Err(err).Str("name", s.Name).Msg("emit shipment event")
	}
}

// FormatShipment renders s as a single human-readable line.
func FormatShipment(s Shipment) string {
	return fmt.Sprintf("Shipping product: %s and with weight: %s", s.Name, strconv.FormatFloat(s.Weight, 'f', -1, 64))
}
