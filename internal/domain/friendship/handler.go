package friendship

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// Handler handles friendship HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates friendship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /friends/requests
// @Summary Send a friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendRequest true "Request data"
// @Success 201 {object} response.Response{data=RequestResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /friends/requests [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	f, err := h.service.Send(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "failed to send friend request")
		return
	}

	out, err := h.service.ToResponse(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("failed to build friend request response")
		response.InternalError(w)
		return
	}
	response.Created(w, out)
}

// Accept handles POST /friends/requests/{id}/accept
// @Summary Accept a friend request
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=RequestResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /friends/requests/{id}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request id")
		return
	}

	f, err := h.service.Accept(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err, "failed to accept friend request")
		return
	}

	out, err := h.service.ToResponse(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("failed to build friend request response")
		response.InternalError(w)
		return
	}
	response.OK(w, out)
}

// Decline handles POST /friends/requests/{id}/decline
// @Summary Decline a friend request
// @Tags Friends
// @Security BearerAuth
// @Success 204 {string} string "No Content"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /friends/requests/{id}/decline [post]
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request id")
		return
	}

	if err := h.service.Decline(r.Context(), userID, id); err != nil {
		h.writeError(w, err, "failed to decline friend request")
		return
	}
	response.NoContent(w)
}

// Cancel handles DELETE /friends/requests/{id}
// @Summary Cancel an outgoing friend request
// @Tags Friends
// @Security BearerAuth
// @Success 204 {string} string "No Content"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /friends/requests/{id} [delete]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request id")
		return
	}

	if err := h.service.Cancel(r.Context(), userID, id); err != nil {
		h.writeError(w, err, "failed to cancel friend request")
		return
	}
	response.NoContent(w)
}

// ListRequests handles GET /friends/requests?direction=incoming|outgoing
// @Summary List pending friend requests
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]RequestResponse}
// @Router /friends/requests [get]
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var (
		items []*Friendship
		err   error
	)
	if r.URL.Query().Get("direction") == "outgoing" {
		items, err = h.service.ListOutgoing(r.Context(), userID)
	} else {
		items, err = h.service.ListIncoming(r.Context(), userID)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list friend requests")
		response.InternalError(w)
		return
	}

	out := make([]RequestResponse, 0, len(items))
	for _, f := range items {
		resp, err := h.service.ToResponse(r.Context(), f)
		if err != nil {
			continue
		}
		out = append(out, *resp)
	}
	response.OK(w, out)
}

// ListFriends handles GET /characters/{slug}/friends
// @Summary List a character's friends
// @Tags Friends
// @Produce json
// @Success 200 {object} response.Response{data=[]CharacterRef}
// @Failure 404 {object} response.Response
// @Router /characters/{slug}/friends [get]
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.service.ListFriends(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if err == character.ErrCharacterNotFound {
			response.NotFound(w, "Character not found")
			return
		}
		log.Error().Err(err).Msg("failed to list friends")
		response.InternalError(w)
		return
	}

	out := make([]CharacterRef, 0, len(friends))
	for _, c := range friends {
		out = append(out, NewCharacterRef(c))
	}
	response.OK(w, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case ErrRequestNotFound:
		response.NotFound(w, "Friend request not found")
	case character.ErrCharacterNotFound:
		response.NotFound(w, "Character not found")
	case character.ErrNotOwner:
		response.Forbidden(w, "Character belongs to another user")
	case ErrNotAddressee, ErrNotRequester:
		response.Forbidden(w, "Request belongs to another character")
	case ErrSelfRequest:
		response.Forbidden(w, "Cannot send a friend request to yourself")
	case ErrBlocked:
		response.Forbidden(w, "Interaction is blocked")
	case ErrDuplicateRequest:
		response.Conflict(w, "Friend request already exists")
	case ErrAlreadyResolved:
		response.Conflict(w, "Request already resolved")
	default:
		log.Error().Err(err).Msg(logMsg)
		response.InternalError(w)
	}
}
