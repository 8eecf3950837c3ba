package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes recorded by Metrics.LoginAttempt.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// Metrics holds the site's Prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// NewMetrics registers the collectors with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "glabs_http_requests_total",
				Help: "Counter for HTTP requests by method, status, route",
			},
			[]string{"method", "status", "route"},
		),
		duration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glabs_http_request_duration_seconds",
				Help:    "Histogram of latencies for HTTP requests by method, route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		logins: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "glabs_login_attempts_total",
				Help: "Counter for admin login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Middleware records count and latency of every request, labelled with
// the chi route pattern so that slugs and ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.requests.WithLabelValues(r.Method, strconv.Itoa(sw.status), route).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// LoginAttempt counts a login attempt. A nil Metrics is a no-op.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}
