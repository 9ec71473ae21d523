package character

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns character router. friendsList and blockedList are
// mounted here so friendship and block endpoints live under /characters,
// but their handlers stay in their own domains.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, friendsList, blockedList http.HandlerFunc) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Search)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/mine", h.ListMine)
		if blockedList != nil {
			r.Get("/blocked", blockedList)
		}
		r.Patch("/{slug}", h.Update)
		r.Delete("/{slug}", h.Delete)
		r.Post("/{slug}/avatar", h.UploadAvatar)
	})

	r.Get("/{slug}", h.Get)
	if friendsList != nil {
		r.Get("/{slug}/friends", friendsList)
	}

	return r
}
