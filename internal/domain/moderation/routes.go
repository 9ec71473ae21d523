package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns moderation router (superuser only)
func (h *Handler) Routes(authMiddleware, superuserMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(superuserMiddleware)
		r.Get("/reports", h.List)
		r.Post("/reports/{id}/review", h.Review)
	})

	return r
}
