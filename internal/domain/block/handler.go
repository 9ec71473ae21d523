package block

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/i18n"
	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// Handler handles block HTTP requests
type Handler struct {
	service *Service
	bundle  *i18n.Bundle
}

// NewHandler creates block handler
func NewHandler(service *Service, bundle *i18n.Bundle) *Handler {
	return &Handler{service: service, bundle: bundle}
}

// Block handles POST /blocks
// @Summary Block a character
// @Tags Blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BlockRequest true "Block data"
// @Success 200 {object} response.Response{data=Response}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blocks [post]
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	b, err := h.service.Block(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "failed to block character")
		return
	}

	response.OK(w, map[string]interface{}{
		"message": h.bundle.T(middleware.GetLocale(r.Context()), "block.blocked"),
		"block":   NewResponse(b),
	})
}

// Unblock handles DELETE /blocks
// @Summary Unblock a character
// @Tags Blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UnblockRequest true "Unblock data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blocks [delete]
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UnblockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	if err := h.service.Unblock(r.Context(), userID, &req); err != nil {
		h.writeError(w, err, "failed to unblock character")
		return
	}

	response.OK(w, map[string]string{
		"message": h.bundle.T(middleware.GetLocale(r.Context()), "block.unblocked"),
	})
}

// ListBlocked handles GET /characters/blocked
// @Summary List blocked characters
// @Tags Blocks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]Response}
// @Router /characters/blocked [get]
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	blocks, err := h.service.ListBlocked(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list blocks")
		response.InternalError(w)
		return
	}

	out := make([]Response, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, NewResponse(b))
	}
	response.OK(w, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case character.ErrCharacterNotFound:
		response.NotFound(w, "Character not found")
	case character.ErrNotOwner:
		response.Forbidden(w, "Character belongs to another user")
	case ErrSelfBlock:
		response.Forbidden(w, "Cannot block your own character")
	default:
		log.Error().Err(err).Msg(logMsg)
		response.InternalError(w)
	}
}
