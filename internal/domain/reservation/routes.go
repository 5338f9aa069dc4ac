package reservation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhub/stayhub-api/internal/middleware"
)

// Routes returns reservation router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/dates", h.ChangeDates)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/complete", h.Complete)
	r.With(middleware.RequireManager()).Post("/{id}/cancel", h.Cancel)

	return r
}
