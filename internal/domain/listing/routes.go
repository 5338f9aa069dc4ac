package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhub/stayhub-api/internal/middleware"
)

// Routes returns listing router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.With(middleware.RequireManager()).Delete("/{id}", h.Archive)
	r.Post("/{id}/activate", h.Activate)
	r.Post("/{id}/quote", h.Quote)

	r.Route("/{id}/photos", func(r chi.Router) {
		r.Get("/", h.Photos)
		r.Post("/init", h.InitPhotoUpload)
		r.Post("/confirm", h.ConfirmPhoto)
		r.Put("/{photoID}/content", h.UploadPhotoContent)
		r.Delete("/{photoID}", h.DeletePhoto)
	})

	return r
}
