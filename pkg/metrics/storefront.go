package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records counters for the checkout and delivery pipeline.
type StorefrontMetrics struct {
	ordersPlaced     prometheus.Counter
	checkoutFailures *prometheus.CounterVec
	outboxPublished  *prometheus.CounterVec
	outboxFailures   *prometheus.CounterVec
	relayDuration    *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders accepted at checkout.",
	})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout submissions rejected or failed.",
	}, []string{"reason"})
	outboxPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events delivered to the relay.",
	}, []string{"event_type"})
	outboxFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_failures_total",
		Help: "Outbox delivery attempts that failed.",
	}, []string{"event_type"})
	relayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_send_duration_seconds",
		Help:    "Duration of relay send calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(ordersPlaced, checkoutFailures, outboxPublished, outboxFailures, relayDuration)
	return &StorefrontMetrics{
		ordersPlaced:     ordersPlaced,
		checkoutFailures: checkoutFailures,
		outboxPublished:  outboxPublished,
		outboxFailures:   outboxFailures,
		relayDuration:    relayDuration,
	}
}

// IncOrderPlaced increments the accepted order counter.
func (m *StorefrontMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncCheckoutFailure increments the failure counter for the given reason.
func (m *StorefrontMetrics) IncCheckoutFailure(reason string) {
	if m == nil || m.checkoutFailures == nil {
		return
	}
	m.checkoutFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncOutboxPublished increments the published counter for the event type.
func (m *StorefrontMetrics) IncOutboxPublished(eventType string) {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncOutboxFailure increments the failure counter for the event type.
func (m *StorefrontMetrics) IncOutboxFailure(eventType string) {
	if m == nil || m.outboxFailures == nil {
		return
	}
	m.outboxFailures.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObserveRelaySend records the duration of one relay call.
func (m *StorefrontMetrics) ObserveRelaySend(endpoint string, duration time.Duration) {
	if m == nil || m.relayDuration == nil {
		return
	}
	m.relayDuration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
