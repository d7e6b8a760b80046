package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetgrid_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetgrid_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meetgrid_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	backendFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetgrid_backend_fetches_total",
		Help: "Backend fetches by collection and outcome.",
	}, []string{"collection", "outcome"})

	staleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetgrid_stale_responses_total",
		Help: "Backend responses discarded because a newer fetch superseded them.",
	}, []string{"collection"})

	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetgrid_bookings_total",
		Help: "Booking submissions by outcome.",
	}, []string{"outcome"})
)

// Middleware records request metrics keyed by the chi route pattern.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			method := r.Method
			duration := time.Since(start).Seconds()
			statusCode := strconv.Itoa(status)

			httpRequestsTotal.WithLabelValues(method, route).Inc()
			httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(duration)
			if status >= http.StatusInternalServerError {
				httpErrorsTotal.WithLabelValues(method, route, statusCode).Inc()
			}
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one backend fetch for a collection ("events",
// "availability", "groups") with its outcome.
func ObserveFetch(collection string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backendFetchesTotal.WithLabelValues(collection, outcome).Inc()
}

// StaleDropped records a discarded out-of-date response.
func StaleDropped(collection string) {
	staleResponsesTotal.WithLabelValues(collection).Inc()
}

// ObserveBooking records one booking submission outcome ("confirmed",
// "failed", "rejected").
func ObserveBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
