package client

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

// Handler handles client HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates client handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /clients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "CLIENT_CREATE_FAILED", "Failed to create client", err)
		return
	}

	response.Created(w, c)
}

// Update handles PUT /clients/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Client not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "CLIENT_UPDATE_FAILED", "Failed to update client", err)
		return
	}

	response.OK(w, c)
}

// Get handles GET /clients/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Client not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "CLIENT_GET_FAILED", "Failed to load client", err)
		return
	}

	response.OK(w, c)
}

// List handles GET /clients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	clients, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "CLIENT_LIST_FAILED", "Failed to list clients", err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	response.WithMeta(w, clients, response.NewMeta(total, filter.Page, filter.Limit))
}

// CreateFolder handles POST /clients/{id}/folders
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	f, err := h.service.CreateFolder(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "FOLDER_CREATE_FAILED", "Failed to create folder")
		return
	}

	response.Created(w, f)
}

// Folders handles GET /clients/{id}/folders
func (h *Handler) Folders(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	folders, err := h.service.Folders(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FOLDER_LIST_FAILED", "Failed to list folders", err)
		return
	}

	response.OK(w, folders)
}

// InitFileUpload handles POST /clients/{id}/files/init
func (h *Handler) InitFileUpload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	var req InitFileUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.InitFileUpload(r.Context(), id, userID, req)
	if err != nil {
		h.writeError(w, r, err, "FILE_INIT_FAILED", "Failed to init file upload")
		return
	}

	response.Created(w, resp)
}

// UploadFileContent handles PUT /clients/{id}/files/{fileID}/content
func (h *Handler) UploadFileContent(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		response.BadRequest(w, "Invalid file ID")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.service.UploadFileContent(r.Context(), fileID, r.Body, contentType); err != nil {
		h.writeError(w, r, err, "FILE_UPLOAD_FAILED", "Failed to upload file")
		return
	}

	response.NoContent(w)
}

// ConfirmFile handles POST /clients/{id}/files/confirm
func (h *Handler) ConfirmFile(w http.ResponseWriter, r *http.Request) {
	var req ConfirmFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		response.BadRequest(w, "Invalid file ID")
		return
	}

	f, err := h.service.ConfirmFile(r.Context(), fileID)
	if err != nil {
		h.writeError(w, r, err, "FILE_CONFIRM_FAILED", "Failed to confirm file")
		return
	}

	response.OK(w, f)
}

// Files handles GET /clients/{id}/files
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	files, err := h.service.Files(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FILE_LIST_FAILED", "Failed to list files", err)
		return
	}

	response.OK(w, files)
}

// DeleteFile handles DELETE /clients/{id}/files/{fileID}
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		response.BadRequest(w, "Invalid file ID")
		return
	}

	if err := h.service.DeleteFile(r.Context(), fileID); err != nil {
		h.writeError(w, r, err, "FILE_DELETE_FAILED", "Failed to delete file")
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Client not found")
	case errors.Is(err, ErrFolderNotFound):
		response.NotFound(w, "Folder not found")
	case errors.Is(err, ErrFileNotFound):
		response.NotFound(w, "File not found")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
