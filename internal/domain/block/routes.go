package block

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns block router (mounted at /blocks). The blocked list
// is mounted by the character router under /characters/blocked.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Block)
		r.Delete("/", h.Unblock)
	})

	return r
}
