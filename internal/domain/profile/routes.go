package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns profile router. Viewing honors visibility for both
// anonymous and authenticated callers, so it uses optional auth.
func (h *Handler) Routes(authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuthMiddleware)
		r.Get("/{username}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Patch("/", h.Update)
	})

	return r
}
