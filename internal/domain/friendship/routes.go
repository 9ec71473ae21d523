package friendship

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns friendship router (mounted at /friends). The friends
// listing of a character is mounted by the character router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/requests", h.ListRequests)
		r.Post("/requests", h.Send)
		r.Post("/requests/{id}/accept", h.Accept)
		r.Post("/requests/{id}/decline", h.Decline)
		r.Delete("/requests/{id}", h.Cancel)
	})

	return r
}
