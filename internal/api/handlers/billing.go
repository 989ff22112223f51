package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fatitalo/quickfeedback/internal/api/dto"
	"github.com/fatitalo/quickfeedback/internal/pkg/errors"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/utils"
	"github.com/fatitalo/quickfeedback/internal/services"
)

// BillingHandler handles checkout session creation
type BillingHandler struct {
	billing *services.BillingService
	logger  *logger.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *services.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billing: billing,
		logger:  log,
	}
}

// CreateCheckoutSession creates a Stripe Checkout session and returns
// the URL the dashboard redirects the browser to. Errors use the flat
// {"error": ...} shape the dashboard parses.
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WritePlainError(w, http.StatusBadRequest, "userId and email are required")
		return
	}

	session, err := h.billing.CreateCheckoutSession(r.Context(), services.CheckoutRequest{
		UserID:     req.UserID,
		Email:      req.Email,
		PlanType:   req.PlanType,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to create checkout session")
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WritePlainError(w, appErr.StatusCode, appErr.Message)
		} else {
			utils.WritePlainError(w, http.StatusInternalServerError, "Error processing payment")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, session)
}
