package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	checkouts *prometheus.CounterVec
	orders    *prometheus.CounterVec
	receipts  prometheus.Counter
}

func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "checkouts_total", Help: "Cart checkouts by result.",
		}, []string{"result"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_created_total", Help: "Orders created by source.",
		}, []string{"source"}),
		receipts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "receipts_generated_total", Help: "Receipts generated.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.checkouts, m.orders, m.receipts)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Checkout counts a checkout attempt. result is ok, empty or error.
func (m *Metrics) Checkout(result string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) OrderCreated(source string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(source).Inc()
}

func (m *Metrics) ReceiptGenerated() {
	if m == nil {
		return
	}
	m.receipts.Inc()
}

func (m *Metrics) CheckoutCounter(result string) prometheus.Counter {
	return m.checkouts.WithLabelValues(result)
}
