package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry lifecycle counters.
var (
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ehsas",
		Name:      "registrations_total",
		Help:      "Alumni registrations accepted.",
	})
	Approvals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ehsas",
		Name:      "approvals_total",
		Help:      "Alumni registrations approved (first approval only).",
	})
	Rejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ehsas",
		Name:      "rejections_total",
		Help:      "Alumni registrations rejected.",
	})
	NotificationsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ehsas",
		Name:      "notifications_recorded_total",
		Help:      "Admin notifications written, by type.",
	}, []string{"type"})
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ehsas",
		Name:      "mail_deliveries_total",
		Help:      "Outbound mail attempts by backend and result.",
	}, []string{"backend", "result"})
)

// HTTP metrics.
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ehsas",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ehsas",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// MailResult records one delivery attempt.
func MailResult(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	MailDeliveries.WithLabelValues(backend, result).Inc()
}
