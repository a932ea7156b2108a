package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/api/middleware"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"go.uber.org/zap"
)

const devTokenTTL = 12 * time.Hour

// AuthHandler issues admin tokens for local development. Production tokens
// come from the identity provider and only pass through the middleware.
type AuthHandler struct {
	auth    *middleware.Authenticator
	enabled bool
}

func NewAuthHandler(auth *middleware.Authenticator, enabled bool) *AuthHandler {
	return &AuthHandler{auth: auth, enabled: enabled}
}

type tokenRequest struct {
	AdminID string `json:"adminId"`
	Name    string `json:"name"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		RespondError(w, r, http.StatusNotFound, "resource/not-found", "dev login is disabled")
		return
	}

	var req tokenRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req.AdminID = strings.TrimSpace(req.AdminID)
	if req.AdminID == "" {
		respondServiceError(w, r, models.NewValidationError("adminId", "is required"))
		return
	}
	if req.Name == "" {
		req.Name = req.AdminID
	}

	token, expires, err := h.auth.Issue(req.AdminID, req.Name, middleware.RoleAdmin, devTokenTTL)
	if err != nil {
		zap.L().Error("failed to sign token", zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "auth/token-signing-failed", "Failed to sign token")
		return
	}
	RespondData(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires})
}
