package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	paymentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_transitions_total",
			Help: "Payment status transitions",
		},
		[]string{"from", "to"},
	)

	eventRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Attendee registrations by outcome",
		},
		[]string{"source", "result"},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	notificationClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_clients",
			Help: "Connected websocket notification clients",
		},
	)
)

func TrackRequest(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func TrackPaymentTransition(from, to string) {
	paymentTransitions.WithLabelValues(from, to).Inc()
}

// TrackRegistration records an attendee registration attempt. source is "direct" or
// "approval".
func TrackRegistration(source, result string) {
	eventRegistrations.WithLabelValues(source, result).Inc()
}

func TrackRateLimited(route string) {
	rateLimited.WithLabelValues(route).Inc()
}

func SetNotificationClients(n int) {
	notificationClients.Set(float64(n))
}
