package handlers

import (
	"io"
	"net/http"

	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/utils"
	"github.com/fatitalo/quickfeedback/internal/services"
)

// Stripe documents 64KB as the cap for webhook payloads.
const maxWebhookBody = 65536

// WebhookHandler receives Stripe webhook events
type WebhookHandler struct {
	billing *services.BillingService
	logger  *logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(billing *services.BillingService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing: billing,
		logger:  log,
	}
}

// HandleStripe verifies and applies a Stripe event. Handled or not,
// verified events are acknowledged with 200 so Stripe stops retrying;
// only signature failures get a 400.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to read webhook body")
		utils.WritePlainError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		utils.WritePlainError(w, http.StatusBadRequest, "No signature")
		return
	}

	event, err := h.billing.VerifyEvent(payload, signature)
	if err != nil {
		h.logger.ErrorWithErr(err, "Webhook signature verification failed")
		utils.WritePlainError(w, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	h.billing.HandleEvent(r.Context(), event)

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
