// Package metrics holds the Prometheus collectors of the service. Collectors
// are package level so adapters can record without extra wiring; Register
// attaches them to a registry once at startup.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	DomainEventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Domain events handed to Kafka after commit, by event name and result",
		},
		[]string{"event", "result"},
	)

	PaymentCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_calls_total",
			Help: "Calls to the payment gateway by operation and result",
		},
		[]string{"operation", "result"},
	)

	PaymentCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_call_duration_seconds",
			Help:    "Duration of payment gateway calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	EscrowAwaitingRelease = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "escrow_awaiting_release",
			Help: "Escrow records holding money for delivered items",
		},
	)

	EscrowAwaitingReleaseOverdue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "escrow_awaiting_release_overdue",
			Help: "Escrow records awaiting release longer than the warning threshold",
		},
	)

	EscrowOldestAwaitingSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "escrow_oldest_awaiting_release_seconds",
			Help: "Age of the oldest delivered item whose escrow is not released",
		},
	)

	EscrowHeldAwaitingRelease = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "escrow_held_awaiting_release_amount",
			Help: "Sum of money held for delivered items",
		},
	)

	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Connected admin escrow feed clients",
		},
	)
)

// Register attaches every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DomainEventsPublishedTotal,
		PaymentCallsTotal,
		PaymentCallDuration,
		EscrowAwaitingRelease,
		EscrowAwaitingReleaseOverdue,
		EscrowOldestAwaitingSeconds,
		EscrowHeldAwaitingRelease,
		WebsocketClients,
	)
}
