package client

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns client router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)

	r.Route("/{id}/folders", func(r chi.Router) {
		r.Get("/", h.Folders)
		r.Post("/", h.CreateFolder)
	})

	r.Route("/{id}/files", func(r chi.Router) {
		r.Get("/", h.Files)
		r.Post("/init", h.InitFileUpload)
		r.Post("/confirm", h.ConfirmFile)
		r.Put("/{fileID}/content", h.UploadFileContent)
		r.Delete("/{fileID}", h.DeleteFile)
	})

	return r
}
