package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/errorhandler"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/validator"
)

// Handler handles report HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates report handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reports
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if caller.ActingUserID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rep, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_CREATE_FAILED", "Failed to create report", err)
		return
	}

	response.Created(w, rep)
}

// Update handles PUT /reports/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rep, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "REPORT_UPDATE_FAILED", "Failed to update report")
		return
	}

	response.OK(w, rep)
}

// Get handles GET /reports/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	rep, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "REPORT_GET_FAILED", "Failed to load report")
		return
	}

	response.OK(w, rep)
}

// List handles GET /reports
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("reservation_id"); v != "" {
		filter.ReservationID, _ = uuid.Parse(v)
	}
	if v := r.URL.Query().Get("inspector_id"); v != "" {
		filter.InspectorID, _ = uuid.Parse(v)
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	reports, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_LIST_FAILED", "Failed to list reports", err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	response.WithMeta(w, reports, response.NewMeta(total, filter.Page, filter.Limit))
}

// Finalize handles POST /reports/{id}/finalize
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if caller.ActingUserID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	rep, err := h.service.Finalize(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err, "REPORT_FINALIZE_FAILED", "Failed to finalize report")
		return
	}

	response.OK(w, rep)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Report not found")
	case errors.Is(err, ErrFinalized):
		response.Conflict(w, "Report is finalized and can no longer be edited")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
