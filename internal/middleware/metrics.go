package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helpdesk",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "helpdesk",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "helpdesk",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})

	// AccessDenials counts requests stopped by access control, by reason
	// ("unauthenticated", "forbidden").
	AccessDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helpdesk",
		Name:      "access_denials_total",
		Help:      "Requests stopped by the auth or role middleware.",
	}, []string{"reason"})

	// LoginAttempts counts login submissions by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helpdesk",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome (success, invalid, error).",
	}, []string{"outcome"})

	// RateLimitRejections counts requests answered 429 by the throttle.
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "helpdesk",
		Name:      "ratelimit_rejections_total",
		Help:      "Total requests rejected by the rate limiter.",
	})
)

// routeLabel keeps metric cardinality bounded: requests that matched no
// route are folded into one label instead of their raw path.
func routeLabel(info *RequestInfo) string {
	if info.Route == "" {
		return "unmatched"
	}
	return info.Route
}

// Metrics returns middleware that records Prometheus metrics for every request.
// Routes are labelled by their registered pattern, not the request path.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, info := withRequestInfo(r)

			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := routeLabel(info)
			status := strconv.Itoa(sw.status)
			httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
