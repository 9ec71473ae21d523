package game

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns game router
func (h *Handler) Routes(authMiddleware, superuserMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/categories", h.ListCategories)
	r.Get("/{slug}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(superuserMiddleware)
		r.Post("/", h.Create)
	})

	return r
}
