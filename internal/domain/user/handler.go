package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stayhub/stayhub-api/internal/pkg/errorhandler"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/validator"
)

// Handler handles staff management HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := h.service.Create(r.Context(), req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_CREATE_FAILED", "Failed to create user", err)
		return
	}

	response.Created(w, u)
}

// Get handles GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_GET_FAILED", "Failed to load user", err)
		return
	}

	response.OK(w, u)
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_LIST_FAILED", "Failed to list users", err)
		return
	}

	response.OK(w, users)
}

// SetActive handles PATCH /users/{id}/active
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.SetActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_UPDATE_FAILED", "Failed to update user", err)
		return
	}

	response.NoContent(w)
}
