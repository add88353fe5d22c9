package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type line float64

func (l line) Quantity() float64 { return float64(l) }

func TestCollectorCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	ctx := context.Background()

	c.Dispatch(ctx, "cart.item.added", line(2))
	c.Dispatch(ctx, "cart.item.added", line(1))
	c.Dispatch(ctx, "cart.item.removed", line(3))
	c.Dispatch(ctx, "", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.events.WithLabelValues("cart.item.added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("cart.item.removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("unknown")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.quantity.WithLabelValues("cart.item.added")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.quantity.WithLabelValues("cart.item.removed")))
}

func TestNilRegistererIsNoop(t *testing.T) {
	c := NewCollector(nil)
	assert.NotPanics(t, func() {
		c.Dispatch(context.Background(), "cart.item.added", line(1))
	})

	var nilCollector *Collector
	assert.NotPanics(t, func() {
		nilCollector.Dispatch(context.Background(), "cart.item.added", nil)
	})
}
