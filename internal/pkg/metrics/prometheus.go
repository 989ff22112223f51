package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickfeedback",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quickfeedback",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quickfeedback",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Feedback metrics
	feedbackSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickfeedback",
			Subsystem: "feedback",
			Name:      "submissions_total",
			Help:      "Total number of feedback submissions",
		},
		[]string{"status"},
	)

	// Email metrics
	emailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickfeedback",
			Subsystem: "mail",
			Name:      "sent_total",
			Help:      "Total number of notification emails attempted",
		},
		[]string{"kind", "status"},
	)

	// Billing metrics
	checkoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickfeedback",
			Subsystem: "billing",
			Name:      "checkout_sessions_total",
			Help:      "Total number of checkout sessions created",
		},
		[]string{"plan", "status"},
	)

	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickfeedback",
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Total number of Stripe webhook events received",
		},
		[]string{"type", "status"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quickfeedback",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFeedbackSubmission records a feedback submission attempt
func RecordFeedbackSubmission(status string) {
	feedbackSubmissionsTotal.WithLabelValues(status).Inc()
}

// RecordEmailSent records a notification email attempt
func RecordEmailSent(kind, status string) {
	emailsSentTotal.WithLabelValues(kind, status).Inc()
}

// RecordCheckoutSession records a checkout session creation attempt
func RecordCheckoutSession(plan, status string) {
	checkoutSessionsTotal.WithLabelValues(plan, status).Inc()
}

// RecordWebhookEvent records a received Stripe webhook event
func RecordWebhookEvent(eventType, status string) {
	webhookEventsTotal.WithLabelValues(eventType, status).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
