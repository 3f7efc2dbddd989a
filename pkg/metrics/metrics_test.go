package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("market", reg)

	m.Checkout("ok")
	m.Checkout("ok")
	m.Checkout("empty")
	m.OrderCreated("cart")
	m.ReceiptGenerated()
	m.ObserveRequest(http.MethodGet, "/cart", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkouts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.receipts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/cart", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Checkout("ok")
		m.OrderCreated("direct")
		m.ReceiptGenerated()
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
	})
}
