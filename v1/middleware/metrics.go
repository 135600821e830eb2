package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	notificationsDeliveredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Total number of notification jobs processed by the outbox worker.",
		},
		[]string{"result"},
	)

	consultationDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultation_decisions_total",
			Help: "Total number of consultation moderation decisions.",
		},
		[]string{"status"},
	)
)

// RegisterMetrics registers the application metrics with the default registry.
// It must be called once at startup before the middleware is used.
func RegisterMetrics() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		notificationsDeliveredTotal,
		consultationDecisionsTotal,
	)
}

// ObserveNotificationDelivery records the outcome of an outbox job attempt
func ObserveNotificationDelivery(result string) {
	notificationsDeliveredTotal.WithLabelValues(result).Inc()
}

// ObserveConsultationDecision records a moderation decision
func ObserveConsultationDecision(status string) {
	consultationDecisionsTotal.WithLabelValues(status).Inc()
}

// statusRecorder captures the response status code for metrics labels
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware records request counts and latencies for every request
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
			httpRequestDurationSeconds.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
		})
	}
}
