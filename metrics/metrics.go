// Package metrics exposes the Prometheus metrics of orbview.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	keplerSolvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbview_kepler_solves_total",
			Help: "Total number of Kepler equation solves.",
		},
		[]string{"step", "converged"},
	)

	keplerIterations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbview_kepler_iterations",
			Help:    "Iterations needed to solve Kepler's equation.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
		},
		[]string{"step"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbview_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbview_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(keplerSolvesTotal)
	prometheus.MustRegister(keplerIterations)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// RecordSolve records one solve of Kepler's equation.
func RecordSolve(step string, iterations int, converged bool) {
	keplerSolvesTotal.WithLabelValues(step, strconv.FormatBool(converged)).Inc()
	keplerIterations.WithLabelValues(step).Observe(float64(iterations))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownRoutes are the only path labels; anything else is "other".
var knownRoutes = map[string]bool{
	"/":          true,
	"/healthz":   true,
	"/metrics":   true,
	"/orbit.svg": true,
	"/snapshot":  true,
	"/scene.svg": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		path := normalizeRoute(r.URL.Path)
		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
