package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stayhub/stayhub-api/internal/domain/listing"
	"github.com/stayhub/stayhub-api/internal/domain/pricing"
	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/errorhandler"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/validator"
)

// Handler handles reservation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates reservation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reservations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if caller.ActingUserID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	res, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		h.writeError(w, r, err, "RESERVATION_CREATE_FAILED", "Failed to create reservation")
		return
	}

	response.Created(w, res)
}

// Get handles GET /reservations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	res, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "RESERVATION_GET_FAILED", "Failed to load reservation")
		return
	}

	response.OK(w, res)
}

// List handles GET /reservations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("listing_id"); v != "" {
		filter.ListingID, _ = uuid.Parse(v)
	}
	if v := r.URL.Query().Get("client_id"); v != "" {
		filter.ClientID, _ = uuid.Parse(v)
	}
	if v := r.URL.Query().Get("from"); v != "" {
		filter.From, _ = time.Parse("2006-01-02", v)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		filter.To, _ = time.Parse("2006-01-02", v)
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	reservations, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "RESERVATION_LIST_FAILED", "Failed to list reservations", err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	response.WithMeta(w, reservations, response.NewMeta(total, filter.Page, filter.Limit))
}

// Confirm handles POST /reservations/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm)
}

// Complete handles POST /reservations/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	if err := fn(r.Context(), id); err != nil {
		h.writeError(w, r, err, "RESERVATION_TRANSITION_FAILED", "Failed to change reservation status")
		return
	}

	response.NoContent(w)
}

// ChangeDates handles PUT /reservations/{id}/dates
func (h *Handler) ChangeDates(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if caller.ActingUserID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	var req ChangeDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.ChangeDates(r.Context(), caller, id, req)
	if err != nil {
		h.writeError(w, r, err, "RESERVATION_EDIT_FAILED", "Failed to change reservation dates")
		return
	}

	if resp.Reservation == nil {
		// Edit is pending card confirmation on the console side
		response.PaymentRequired(w, resp)
		return
	}
	response.OK(w, resp)
}

// Cancel handles POST /reservations/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if caller.ActingUserID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	res, err := h.service.Cancel(r.Context(), caller, id, req)
	if err != nil {
		h.writeError(w, r, err, "RESERVATION_CANCEL_FAILED", "Failed to cancel reservation")
		return
	}

	response.OK(w, res)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		response.UnprocessableEntity(w, verr.Code, verr.Message)
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Reservation not found")
	case errors.Is(err, listing.ErrNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotEditable):
		response.Conflict(w, "Reservation can no longer be edited")
	case errors.Is(err, ErrPaymentNotSettled):
		response.UnprocessableEntity(w, "PAYMENT_NOT_SETTLED", "Payment intent is not settled for the required amount")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
