package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fatitalo/quickfeedback/internal/api/dto"
	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/utils"
)

// AuthHandler handles the identity bootstrap endpoint
type AuthHandler struct {
	users  user.Service
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users user.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: log,
	}
}

// Bootstrap finds or creates the account for an email. The dashboard
// calls it after sign-in; repeated calls return the same user.
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req dto.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WritePlainError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if req.Email == "" {
		utils.WritePlainError(w, http.StatusBadRequest, "Email is required")
		return
	}

	u, err := h.users.Bootstrap(r.Context(), req.Email)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to bootstrap user")
		utils.WritePlainError(w, http.StatusInternalServerError, "Error checking user")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}
