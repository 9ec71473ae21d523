package poke

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns poke router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Send)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/respond", h.Respond)
		r.Post("/{id}/ignore", h.Ignore)
	})

	return r
}
