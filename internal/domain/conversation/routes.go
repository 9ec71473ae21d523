package conversation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns conversation router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/threads", h.ListThreads)
		r.Post("/threads/{id}/read", h.MarkRead)
		r.Get("/messages", h.ListMessages)
		r.Post("/messages", h.Send)
		r.Get("/unread", h.UnreadCount)
	})

	return r
}
