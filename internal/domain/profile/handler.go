package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /profile/{username}
// @Summary View a user's profile
// @Tags Profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Response{data=Response}
// @Failure 403 {object} response.Response "PROFILE_PRIVATE"
// @Failure 404 {object} response.Response
// @Router /profile/{username} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	username := chi.URLParam(r, "username")

	resp, err := h.service.Get(r.Context(), viewerID, username)
	if err != nil {
		switch err {
		case ErrProfileNotFound:
			response.NotFound(w, "Profile not found")
		case ErrProfilePrivate:
			response.Error(w, http.StatusForbidden, "PROFILE_PRIVATE", "This profile is not visible to you")
		default:
			log.Error().Err(err).Msg("failed to get profile")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// Update handles PATCH /profile
// @Summary Update own profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateRequest true "Profile fields"
// @Success 200 {object} response.Response{data=Response}
// @Failure 422 {object} response.Response
// @Router /profile [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	p, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		log.Error().Err(err).Msg("failed to update profile")
		response.InternalError(w)
		return
	}

	response.OK(w, NewResponse(middleware.GetUsername(r.Context()), p))
}
