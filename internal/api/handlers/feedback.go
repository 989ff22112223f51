package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fatitalo/quickfeedback/internal/api/dto"
	"github.com/fatitalo/quickfeedback/internal/domain/feedback"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/utils"
	"github.com/fatitalo/quickfeedback/internal/pkg/validator"
)

// FeedbackHandler handles widget submissions and dashboard queries
type FeedbackHandler struct {
	service   feedback.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service feedback.Service, log *logger.Logger, val *validator.Validator) *FeedbackHandler {
	return &FeedbackHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Submit stores a widget submission and triggers the notification
// emails.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailureMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteFailureMessage(w, http.StatusBadRequest, validationMessage(errs))
		return
	}

	fb, err := h.service.Submit(r.Context(), feedback.Submission{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		SiteURL:   req.SiteURL,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to save feedback")
		utils.WriteFailureMessage(w, http.StatusInternalServerError, "Error saving feedback")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Feedback submitted successfully",
		"data":    fb,
	})
}

// validationMessage keeps the widget's error contract: a missing
// project id has its own message, everything else is the generic one.
func validationMessage(errs []validator.ValidationError) string {
	for _, e := range errs {
		if e.Field != "projectId" {
			return "Missing required fields"
		}
	}
	return "Missing project ID"
}

// List returns feedback newest first as a bare JSON array, optionally
// filtered by the userId query parameter. The dashboard consumes the
// array directly.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("userId")

	items, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to list feedback")
		utils.WritePlainError(w, http.StatusInternalServerError, "Error fetching feedback")
		return
	}

	if items == nil {
		items = []*feedback.Feedback{}
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

// Delete removes a feedback row. Deleting an already-deleted row
// still reports success.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.ErrorWithErr(err, "Failed to delete feedback")
		utils.WritePlainError(w, http.StatusInternalServerError, "Error deleting feedback")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Feedback deleted successfully", nil)
}
