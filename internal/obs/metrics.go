package obs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
)

// Authentication outcomes recorded by AuthAttempt.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLocked  = "locked"
	OutcomeError   = "error"
)

// Metrics owns its registry so several instances can coexist in tests.
// The counting methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authAttempts        *prometheus.CounterVec
	tokenRejections     *prometheus.CounterVec
	tokensIssued        prometheus.Counter
	uploads             *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freearch_auth_attempts_total",
				Help: "Password authentication attempts by outcome.",
			},
			[]string{"outcome"},
		),
		tokenRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freearch_token_rejections_total",
				Help: "Requests rejected at the token gate by reason.",
			},
			[]string{"reason"},
		),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "freearch_tokens_issued_total",
			Help: "Bearer tokens issued.",
		}),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freearch_uploads_total",
				Help: "Thumbnail uploads by result.",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authAttempts,
		m.tokenRejections,
		m.tokensIssued,
		m.uploads,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Instrument records request count, latency and in-flight requests. Paths are
// labelled with the route template so ids do not explode cardinality.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		m.httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.httpInFlight.Dec()
	}
}

// AuthAttempt counts one password authentication.
func (m *Metrics) AuthAttempt(outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.tokensIssued.Inc()
	}
}

// TokenRejected is meant for auth.WithRejectHook.
func (m *Metrics) TokenRejected(err error) {
	if m == nil {
		return
	}
	m.tokenRejections.WithLabelValues(RejectReason(err)).Inc()
}

// Upload counts one thumbnail upload attempt.
func (m *Metrics) Upload(err error) {
	if m == nil {
		return
	}
	result := "stored"
	if err != nil {
		result = "rejected"
	}
	m.uploads.WithLabelValues(result).Inc()
}

// RejectReason maps a gate error onto a small fixed label set.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return "missing"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, auth.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "invalid"
	}
}
