package listing

import (
	"context"
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

// Handler handles listing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /listings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	l, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LISTING_CREATE_FAILED", "Failed to create listing", err)
		return
	}

	response.Created(w, l)
}

// Update handles PUT /listings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	l, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LISTING_UPDATE_FAILED", "Failed to update listing", err)
		return
	}

	response.OK(w, l)
}

// Get handles GET /listings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	l, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LISTING_GET_FAILED", "Failed to load listing", err)
		return
	}

	response.OK(w, l)
}

// List handles GET /listings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		City:   r.URL.Query().Get("city"),
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	listings, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LISTING_LIST_FAILED", "Failed to list listings", err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	response.WithMeta(w, listings, response.NewMeta(total, filter.Page, filter.Limit))
}

// Activate handles POST /listings/{id}/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Activate)
}

// Archive handles DELETE /listings/{id}
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Archive)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	if err := fn(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LISTING_STATUS_FAILED", "Failed to change listing status", err)
		return
	}

	response.NoContent(w)
}

// Quote handles POST /listings/{id}/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	result, err := h.service.Quote(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "QUOTE_FAILED", "Failed to compute quote", err)
		return
	}

	response.OK(w, result)
}

// InitPhotoUpload handles POST /listings/{id}/photos/init
func (h *Handler) InitPhotoUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req InitPhotoUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.InitPhotoUpload(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrUnsupportedPhotoType) {
			response.BadRequest(w, "Unsupported photo type")
			return
		}
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_INIT_FAILED", "Failed to init photo upload", err)
		return
	}

	response.Created(w, resp)
}

// UploadPhotoContent handles PUT /listings/{id}/photos/{photoID}/content
func (h *Handler) UploadPhotoContent(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.service.UploadPhotoContent(r.Context(), photoID, r.Body, contentType); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Photo not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_UPLOAD_FAILED", "Failed to upload photo", err)
		return
	}

	response.NoContent(w)
}

// ConfirmPhoto handles POST /listings/{id}/photos/confirm
func (h *Handler) ConfirmPhoto(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	photoID, err := uuid.Parse(req.PhotoID)
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	p, err := h.service.ConfirmPhoto(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Photo not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_CONFIRM_FAILED", "Failed to confirm photo", err)
		return
	}

	response.OK(w, p)
}

// Photos handles GET /listings/{id}/photos
func (h *Handler) Photos(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	photos, err := h.service.Photos(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_LIST_FAILED", "Failed to list photos", err)
		return
	}

	response.OK(w, photos)
}

// DeletePhoto handles DELETE /listings/{id}/photos/{photoID}
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	if err := h.service.DeletePhoto(r.Context(), photoID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Photo not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_DELETE_FAILED", "Failed to delete photo", err)
		return
	}

	response.NoContent(w)
}
