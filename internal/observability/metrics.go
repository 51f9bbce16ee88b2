package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors exposed by the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	assignments    *prometheus.CounterVec
	feedBuildTime  prometheus.Histogram
	snapshotErrors *prometheus.CounterVec
	dismissedTotal prometheus.Counter
	ticketsCreated *prometheus.CounterVec
	statusChanges  *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_assignments_total",
			Help: "Ticket assignment outcomes by source.",
		}, []string{"outcome"}),
		feedBuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "notification_feed_build_seconds",
			Help:    "Time spent assembling the notification feed.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		snapshotErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_snapshot_errors_total",
			Help: "Snapshot fetch failures per ticket domain.",
		}, []string{"domain"}),
		dismissedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_dismissed_total",
			Help: "Notifications dismissed by end users.",
		}),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Tickets created per domain.",
		}, []string{"domain"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_status_changes_total",
			Help: "Ticket status transitions per domain.",
		}, []string{"domain", "status"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Failed HTTP requests by route, method and error code.",
		}, []string{"route", "method", "code"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.assignments,
		m.feedBuildTime,
		m.snapshotErrors,
		m.dismissedTotal,
		m.ticketsCreated,
		m.statusChanges,
		m.errorsTotal,
	)

	return m
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, latency time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// IncAssignment counts an assignment outcome: "assigned" or "unassigned".
func (m *Metrics) IncAssignment(outcome string) {
	m.assignments.WithLabelValues(outcome).Inc()
}

// ObserveFeedBuild records the duration of one feed assembly.
func (m *Metrics) ObserveFeedBuild(d time.Duration) {
	m.feedBuildTime.Observe(d.Seconds())
}

// IncSnapshotError counts a failed snapshot fetch for a domain.
func (m *Metrics) IncSnapshotError(domain string) {
	m.snapshotErrors.WithLabelValues(domain).Inc()
}

// IncDismissed counts a dismissed notification.
func (m *Metrics) IncDismissed() {
	m.dismissedTotal.Inc()
}

// IncTicketCreated counts a created ticket.
func (m *Metrics) IncTicketCreated(domain string) {
	m.ticketsCreated.WithLabelValues(domain).Inc()
}

// IncStatusChange counts a status transition.
func (m *Metrics) IncStatusChange(domain, status string) {
	m.statusChanges.WithLabelValues(domain, status).Inc()
}

// RecordError counts a request that ended in an application error.
func (m *Metrics) RecordError(route, method, code string) {
	m.errorsTotal.WithLabelValues(route, method, code).Inc()
}

// Handler exposes the registry in Prometheus exposition format as a
// fiber handler.
func (m *Metrics) Handler() fiber.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	return adaptor.HTTPHandler(http.Handler(h))
}
