package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stayhub/stayhub-api/internal/pkg/errorhandler"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or password")
		case errors.Is(err, ErrAccountDisabled):
			response.Forbidden(w, "Account is disabled")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed", err)
		}
		return
	}

	response.OK(w, tokens)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRefresh):
			response.Unauthorized(w, "Invalid refresh token")
		case errors.Is(err, ErrAccountDisabled):
			response.Forbidden(w, "Account is disabled")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REFRESH_FAILED", "Token refresh failed", err)
		}
		return
	}

	response.OK(w, tokens)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGOUT_FAILED", "Logout failed", err)
		return
	}

	response.NoContent(w)
}
