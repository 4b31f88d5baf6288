// Package metrics provides Prometheus metrics collection for the application.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeFallback = "fallback"
)

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Conversation metrics
	ChatTurnsTotal    *prometheus.CounterVec
	ContactFlagsTotal prometheus.Counter

	// Lead metrics
	LeadsCreatedTotal   *prometheus.CounterVec
	LeadPersistFailures prometheus.Counter
	NotificationsTotal  *prometheus.CounterVec

	// External AI service metrics
	AICallsTotal        *prometheus.CounterVec
	AICallDuration      *prometheus.HistogramVec
	AIFallbacksTotal    *prometheus.CounterVec
	CircuitBreakerState *prometheus.GaugeVec

	// Webhook metrics
	WebhooksReceivedTotal *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHitsTotal *prometheus.CounterVec

	// Database metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge

	registry prometheus.Gatherer
}

// NewMetrics creates a Metrics instance registered on the default registry.
func NewMetrics() *Metrics {
	m := newMetricsWithRegistry(prometheus.DefaultRegisterer)
	m.registry = prometheus.DefaultGatherer
	return m
}

// NewMetricsWithRegistry creates metrics using a custom registry (for testing).
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := newMetricsWithRegistry(reg)
	m.registry = reg
	return m
}

func newMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadgen_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadgen_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		ChatTurnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_chat_turns_total",
				Help: "Chat turns served, by outcome",
			},
			[]string{"outcome"},
		),
		ContactFlagsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "leadgen_contact_flags_total",
				Help: "Turns on which the contact-collection flag was raised",
			},
		),
		LeadsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_leads_created_total",
				Help: "Leads created, by source",
			},
			[]string{"source"},
		),
		LeadPersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "leadgen_lead_persist_failures_total",
				Help: "Lead database writes that failed and were absorbed",
			},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_notifications_total",
				Help: "Notification emails attempted, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		AICallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_ai_calls_total",
				Help: "Outbound completion calls, by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		AICallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadgen_ai_call_duration_seconds",
				Help:    "Completion call duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"tool"},
		),
		AIFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_ai_fallbacks_total",
				Help: "Tool responses served from fallback values, by tool",
			},
			[]string{"tool"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "leadgen_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		WebhooksReceivedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_webhooks_received_total",
				Help: "Social webhook deliveries received, by platform",
			},
			[]string{"platform"},
		),
		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_rate_limit_hits_total",
				Help: "Requests rejected by rate limiting, by limiter",
			},
			[]string{"limiter"},
		),
		DBConnectionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadgen_db_connections_open",
				Help: "Open database connections",
			},
		),
		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadgen_db_connections_in_use",
				Help: "Database connections currently in use",
			},
		),
	}
}

// Handler returns the Prometheus scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, duration, and in-flight gauge.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.HTTPRequestsTotal.WithLabelValues(
			r.Method,
			path,
			strconv.Itoa(wrapped.statusCode),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// normalizePath keeps metric label cardinality bounded.
func normalizePath(path string) string {
	switch path {
	case "/", "/health", "/ready", "/live", "/metrics":
		return path
	}
	if strings.HasPrefix(path, "/webhook/") {
		return "/webhook/:platform"
	}
	if strings.HasPrefix(path, "/api/") {
		return path
	}
	return "other"
}

// Helper methods for recording specific events

// RecordChatTurn records one served chat turn.
func (m *Metrics) RecordChatTurn(degraded bool) {
	outcome := outcomeSuccess
	if degraded {
		outcome = outcomeFallback
	}
	m.ChatTurnsTotal.WithLabelValues(outcome).Inc()
}

// RecordContactFlag records a raised contact-collection flag.
func (m *Metrics) RecordContactFlag() {
	m.ContactFlagsTotal.Inc()
}

// RecordLeadCreated records a created lead.
func (m *Metrics) RecordLeadCreated(source string) {
	m.LeadsCreatedTotal.WithLabelValues(source).Inc()
}

// RecordLeadPersistFailure records an absorbed lead write failure.
func (m *Metrics) RecordLeadPersistFailure() {
	m.LeadPersistFailures.Inc()
}

// RecordNotification records a notification email attempt.
func (m *Metrics) RecordNotification(kind string, success bool) {
	outcome := outcomeSuccess
	if !success {
		outcome = outcomeFailure
	}
	m.NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordAICall records an outbound completion call.
func (m *Metrics) RecordAICall(tool string, success bool, duration time.Duration) {
	outcome := outcomeSuccess
	if !success {
		outcome = outcomeFailure
	}
	m.AICallsTotal.WithLabelValues(tool, outcome).Inc()
	m.AICallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordAIFallback records a tool response served from fallback values.
func (m *Metrics) RecordAIFallback(tool string) {
	m.AIFallbacksTotal.WithLabelValues(tool).Inc()
}

// SetCircuitBreakerState updates the breaker state gauge.
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordWebhook records a received social webhook delivery.
func (m *Metrics) RecordWebhook(platform string) {
	m.WebhooksReceivedTotal.WithLabelValues(platform).Inc()
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHitsTotal.WithLabelValues(limiter).Inc()
}

// UpdateDBConnections updates the pool gauges.
func (m *Metrics) UpdateDBConnections(open, inUse int) {
	m.DBConnectionsOpen.Set(float64(open))
	m.DBConnectionsInUse.Set(float64(inUse))
}
