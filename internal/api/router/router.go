package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fatitalo/quickfeedback/internal/api/handlers"
	"github.com/fatitalo/quickfeedback/internal/api/middleware"
	"github.com/fatitalo/quickfeedback/internal/config"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/metrics"
)

// Handlers groups the route handlers the router wires up
type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Feedback *handlers.FeedbackHandler
	Billing  *handlers.BillingHandler
	Webhook  *handlers.WebhookHandler
	Widget   *handlers.WidgetHandler
}

// New builds the HTTP route table
func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Ops endpoints
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Widget-facing routes. The widget runs on arbitrary customer
	// origins, so these answer any origin. Mounted as subrouters so the
	// CORS middleware sees OPTIONS preflights before method matching.
	r.With(middleware.PublicCORS()).Get("/widget.js", h.Widget.Script)
	r.Route("/api/feedback", func(r chi.Router) {
		r.Use(middleware.PublicCORS())

		r.Post("/", h.Feedback.Submit)
		r.Get("/", h.Feedback.List)
		r.Delete("/{id}", h.Feedback.Delete)
	})

	// Dashboard-facing routes
	dashboardCORS := middleware.CORS(middleware.ParseOrigins(cfg.Server.CORSAllowedOrigins))
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(dashboardCORS)
		r.Post("/", h.Auth.Bootstrap)
	})
	r.Route("/api/create-checkout-session", func(r chi.Router) {
		r.Use(dashboardCORS)
		r.Post("/", h.Billing.CreateCheckoutSession)
	})

	// Stripe calls this server-to-server; no CORS involved.
	r.Post("/api/stripe/webhook", h.Webhook.HandleStripe)

	return r
}
