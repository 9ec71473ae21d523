package character

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// Handler handles character HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates character handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /characters
// @Summary Create a character
// @Tags Characters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Character data"
// @Success 201 {object} response.Response{data=Response}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /characters [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	c, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case ErrGameNotFound:
			response.NotFound(w, "Game not found")
		case ErrNicknameTaken:
			response.Conflict(w, "You already have a character with this nickname in this game")
		default:
			log.Error().Err(err).Str("nickname", req.Nickname).Msg("failed to create character")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, NewResponse(c))
}

// Get handles GET /characters/{slug}
// @Summary Get character by slug
// @Tags Characters
// @Produce json
// @Success 200 {object} response.Response{data=Response}
// @Failure 404 {object} response.Response
// @Router /characters/{slug} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if err == ErrCharacterNotFound {
			response.NotFound(w, "Character not found")
			return
		}
		log.Error().Err(err).Msg("failed to get character")
		response.InternalError(w)
		return
	}
	response.OK(w, NewResponse(c))
}

// ListMine handles GET /characters/mine
// @Summary List my characters
// @Tags Characters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]Response}
// @Router /characters/mine [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	characters, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list characters")
		response.InternalError(w)
		return
	}

	out := make([]Response, 0, len(characters))
	for _, c := range characters {
		out = append(out, NewResponse(c))
	}
	response.OK(w, out)
}

// Search handles GET /characters
// @Summary Search characters by nickname
// @Tags Characters
// @Produce json
// @Param nickname query string false "Nickname filter"
// @Param game_id query string false "Game filter"
// @Success 200 {object} response.Response{data=[]Response}
// @Router /characters [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var gameID *uuid.UUID
	if raw := q.Get("game_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid game_id")
			return
		}
		gameID = &id
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	characters, err := h.service.Search(r.Context(), q.Get("nickname"), gameID, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to search characters")
		response.InternalError(w)
		return
	}

	out := make([]Response, 0, len(characters))
	for _, c := range characters {
		out = append(out, NewResponse(c))
	}
	response.OK(w, out)
}

// Update handles PATCH /characters/{slug}
// @Summary Update a character
// @Tags Characters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateRequest true "Fields to update"
// @Success 200 {object} response.Response{data=Response}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /characters/{slug} [patch]
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

	c, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "slug"), &req)
	if err != nil {
		h.writeError(w, err, "failed to update character")
		return
	}

	response.OK(w, NewResponse(c))
}

// Delete handles DELETE /characters/{slug}
// @Summary Delete a character
// @Tags Characters
// @Security BearerAuth
// @Success 204 {string} string "No Content"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /characters/{slug} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "slug")); err != nil {
		h.writeError(w, err, "failed to delete character")
		return
	}

	response.NoContent(w)
}

// UploadAvatar handles POST /characters/{slug}/avatar
// @Summary Upload character avatar
// @Tags Characters
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} response.Response{data=Response}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /characters/{slug}/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	file, _, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "Avatar file is required")
		return
	}
	defer file.Close()

	c, err := h.service.UploadAvatar(r.Context(), userID, chi.URLParam(r, "slug"), file)
	if err != nil {
		if err == ErrInvalidAvatar {
			response.BadRequest(w, "File is not a supported image")
			return
		}
		h.writeError(w, err, "failed to upload avatar")
		return
	}

	response.OK(w, NewResponse(c))
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case ErrCharacterNotFound:
		response.NotFound(w, "Character not found")
	case ErrNotOwner:
		response.Forbidden(w, "Character belongs to another user")
	case ErrNicknameTaken:
		response.Conflict(w, "You already have a character with this nickname in this game")
	default:
		log.Error().Err(err).Msg(logMsg)
		response.InternalError(w)
	}
}
