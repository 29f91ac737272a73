package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics holds the checkout collectors registered on one registry.
type DomainMetrics struct {
	// CheckoutTotal counts checkout attempts by outcome.
	CheckoutTotal            *prometheus.CounterVec
	// CartAddTotal counts cart additions by result.
	CartAddTotal             *prometheus.CounterVec
	// ShipmentsDispatchedTotal counts items handed to the shipping dispatcher.
	ShipmentsDispatchedTotal prometheus.Counter
}

var (
	domainMu   sync.RWMutex
	domainSets []*DomainMetrics
)

// MustRegisterDomainMetrics registers the checkout collectors on reg and returns them. Every
// registry passed here receives the Observe* calls that follow; registering twice on the
// same registry returns the collectors already present.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &DomainMetrics{
		CheckoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by outcome.",
		}, []string{"outcome"}),
		CartAddTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_add_total",
			Help:      "Count of cart additions by result.",
		}, []string{"result"}),
		ShipmentsDispatchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipments_dispatched_total",
			Help:      "Number of items handed to the shipping dispatcher.",
		}),
	}
	mustRegisterCollector(reg, m.CheckoutTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.CheckoutTotal = v
		}
	})
	mustRegisterCollector(reg, m.CartAddTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.CartAddTotal = v
		}
	})
	mustRegisterCollector(reg, m.ShipmentsDispatchedTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.ShipmentsDispatchedTotal = v
		}
	})

	domainMu.Lock()
	defer domainMu.Unlock()
	for _, set := range domainSets {
		if set.CheckoutTotal == m.CheckoutTotal {
			return set
		}
	}
	domainSets = append(domainSets, m)
	return m
}

func eachDomainSet(fn func(*DomainMetrics)) {
	domainMu.RLock()
	defer domainMu.RUnlock()
	for _, set := range domainSets {
		fn(set)
	}
}

// ObserveCheckout counts a checkout outcome on every registered set.
func ObserveCheckout(outcome string) {
	eachDomainSet(func(m *DomainMetrics) { m.CheckoutTotal.WithLabelValues(outcome).Inc() })
}

// ObserveCartAdd counts a cart addition result on every registered set.
func ObserveCartAdd(result string) {
	eachDomainSet(func(m *DomainMetrics) { m.CartAddTotal.WithLabelValues(result).Inc() })
}

// ObserveShipments adds n dispatched items on every registered set.
func ObserveShipments(n int) {
	if n <= 0 {
		return
	}
	eachDomainSet(func(m *DomainMetrics) { m.ShipmentsDispatchedTotal.Add(float64(n)) })
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
