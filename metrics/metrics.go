// Package metrics counts cart lifecycle events with Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector turns cart events into counters. Register Collector.Dispatch on
// an events.Bus with the wildcard event, or add it to an events.Fanout.
type Collector struct {
	events   *prometheus.CounterVec
	quantity *prometheus.CounterVec
}

// NewCollector registers the cart metrics on the provided registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		return &Collector{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_item_events_total",
		Help: "Cart item events by event name.",
	}, []string{"event"})
	quantity := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_item_event_quantity_total",
		Help: "Sum of the line quantities carried by cart item events.",
	}, []string{"event"})
	reg.MustRegister(events, quantity)
	return &Collector{
		events:   events,
		quantity: quantity,
	}
}

type quantified interface {
	Quantity() float64
}

// Dispatch records one event.
func (c *Collector) Dispatch(_ context.Context, event string, payload any) {
	if c == nil || c.events == nil {
		return
	}
	event = normalizeLabel(event)
	c.events.WithLabelValues(event).Inc()

	if q, ok := payload.(quantified); ok && q.Quantity() > 0 {
		c.quantity.WithLabelValues(event).Add(q.Quantity())
	}
}

func normalizeLabel(event string) string {
	if event == "" {
		return "unknown"
	}
	return event
}
