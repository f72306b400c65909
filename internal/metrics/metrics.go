// Package metrics defines the Prometheus collectors of the storefront.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
// Tests and tools that do not care about metrics simply pass nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Metrics holds the RPC and domain collectors.
type Metrics struct {
	rpcRequests  *prometheus.CounterVec
	rpcDurations *prometheus.HistogramVec
	authAttempts *prometheus.CounterVec
	cartUnits    *prometheus.CounterVec
	orders       prometheus.Counter
	orderTotal   prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		rpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of RPC calls by procedure and result code.",
			},
			[]string{"procedure", "code"},
		),
		rpcDurations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "Duration of RPC calls in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"procedure"},
		),
		authAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Signup and login attempts by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		cartUnits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_units_total",
				Help:      "Item units added to or removed from carts.",
			},
			[]string{"operation"},
		),
		orders: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_submitted_total",
				Help:      "Total number of submitted orders.",
			},
		),
		orderTotal: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "order_total",
				Help:      "Order totals in currency units.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
			},
		),
	}
}

// ObserveRPC records one finished RPC call.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDurations.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// AuthAttempt records a signup or login outcome ("ok" or a failure reason).
func (m *Metrics) AuthAttempt(operation, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(operation, outcome).Inc()
}

// CartUnits records units added ("add") or removed ("remove").
func (m *Metrics) CartUnits(operation string, units int) {
	if m == nil || units <= 0 {
		return
	}
	m.cartUnits.WithLabelValues(operation).Add(float64(units))
}

// OrderSubmitted records a stored order and its total.
func (m *Metrics) OrderSubmitted(total float64) {
	if m == nil {
		return
	}
	m.orders.Inc()
	m.orderTotal.Observe(total)
}
