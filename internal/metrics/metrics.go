// Package metrics provides Prometheus instrumentation for Marquee.
//
// Metrics are registered via promauto at package init and exposed at
// GET /metrics through Handler().
//
// Marquee-specific metrics:
//
//	marquee_http_requests_total          — counter: HTTP requests by method/path/status
//	marquee_http_request_duration_secs   — histogram: HTTP latency by method/path
//	marquee_auth_events_total            — counter: redemptions and authentications by result
//	marquee_tmdb_requests_total          — counter: outbound TMDB calls by endpoint/result
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

// HTTPRequests counts HTTP requests by method, path, and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// HTTPDuration tracks HTTP request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "marquee_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// AuthEvents counts auth events (redeem, authenticate) by result.
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_auth_events_total",
	Help: "Auth events by type and result.",
}, []string{"event", "result"})

// TMDBRequests counts outbound TMDB API calls by endpoint and result.
var TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_tmdb_requests_total",
	Help: "Outbound TMDB API requests by endpoint and result.",
}, []string{"endpoint", "result"})

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware wraps an HTTP handler to record request counts and latency.
// Paths are templated before use as label values to keep cardinality low.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		dur := time.Since(start).Seconds()
		path := templatePath(r.URL.Path)
		status := strconv.Itoa(rw.status)
		HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		HTTPDuration.WithLabelValues(r.Method, path).Observe(dur)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// templatePath collapses movie IDs so each route yields one label value.
//
//	/api/movies/550           → /api/movies/:id
//	/api/movies/550/stream    → /api/movies/:id/stream
func templatePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "movies" {
		switch parts[2] {
		case "trending", "search":
		default:
			parts[2] = ":id"
		}
		return "/" + strings.Join(parts, "/")
	}
	if len(path) > 64 {
		return path[:64] + "..."
	}
	return path
}
