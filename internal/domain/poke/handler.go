package poke

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/i18n"
	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// Handler handles poke HTTP requests
type Handler struct {
	service *Service
	bundle  *i18n.Bundle
}

// NewHandler creates poke handler
func NewHandler(service *Service, bundle *i18n.Bundle) *Handler {
	return &Handler{service: service, bundle: bundle}
}

// Send handles POST /pokes
// @Summary Send a poke
// @Tags Pokes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendRequest true "Poke data"
// @Success 201 {object} response.Response{data=Response}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /pokes [post]
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

	p, err := h.service.Send(r.Context(), userID, &req)
	if err != nil {
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) {
			loc := middleware.GetLocale(r.Context())
			response.TooManyRequests(w, h.bundle.T(loc, "poke.rate_limited"), map[string]string{
				"limit":     strconv.Itoa(rateErr.Limit),
				"remaining": strconv.Itoa(rateErr.Remaining),
				"reset_at":  rateErr.ResetAt.Format("2006-01-02T15:04:05Z07:00"),
			})
			return
		}
		h.writeError(w, err, "failed to send poke")
		return
	}

	response.Created(w, NewResponse(p))
}

// Respond handles POST /pokes/{id}/respond
// @Summary Respond to a poke
// @Tags Pokes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RespondRequest true "Reply content"
// @Success 201 {object} response.Response{data=Response}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pokes/{id}/respond [post]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid poke id")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reply, err := h.service.Respond(r.Context(), userID, id, &req)
	if err != nil {
		h.writeError(w, err, "failed to respond to poke")
		return
	}

	response.Created(w, NewResponse(reply))
}

// Ignore handles POST /pokes/{id}/ignore
// @Summary Ignore a poke
// @Tags Pokes
// @Security BearerAuth
// @Success 204 {string} string "No Content"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pokes/{id}/ignore [post]
func (h *Handler) Ignore(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid poke id")
		return
	}

	if err := h.service.Ignore(r.Context(), userID, id); err != nil {
		h.writeError(w, err, "failed to ignore poke")
		return
	}
	response.NoContent(w)
}

// Get handles GET /pokes/{id}
// @Summary Get a poke
// @Tags Pokes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Response}
// @Failure 404 {object} response.Response
// @Router /pokes/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid poke id")
		return
	}

	p, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err, "failed to get poke")
		return
	}
	response.OK(w, NewResponse(p))
}

// List handles GET /pokes?direction=sent|received&status=
// @Summary List pokes
// @Tags Pokes
// @Produce json
// @Security BearerAuth
// @Param direction query string false "sent or received (default received)"
// @Param status query string false "pending, responded or ignored"
// @Success 200 {object} response.Response{data=[]Response}
// @Router /pokes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	q := r.URL.Query()

	status := Status(q.Get("status"))
	switch status {
	case "", StatusPending, StatusResponded, StatusIgnored:
	default:
		response.BadRequest(w, "Invalid status filter")
		return
	}

	var (
		pokes []*Poke
		err   error
	)
	if q.Get("direction") == "sent" {
		pokes, err = h.service.ListSent(r.Context(), userID, status)
	} else {
		pokes, err = h.service.ListReceived(r.Context(), userID, status)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list pokes")
		response.InternalError(w)
		return
	}

	out := make([]Response, 0, len(pokes))
	for _, p := range pokes {
		out = append(out, NewResponse(p))
	}
	response.OK(w, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case ErrPokeNotFound:
		response.NotFound(w, "Poke not found")
	case character.ErrCharacterNotFound:
		response.NotFound(w, "Character not found")
	case character.ErrNotOwner:
		response.Forbidden(w, "Character belongs to another user")
	case ErrNotReceiver:
		response.Forbidden(w, "Poke is addressed to another character")
	case ErrSelfPoke:
		response.Forbidden(w, "Cannot poke your own character")
	case ErrBlocked:
		response.Forbidden(w, "Interaction is blocked")
	case ErrAlreadyResolved:
		response.Conflict(w, "Poke already resolved")
	default:
		log.Error().Err(err).Msg(logMsg)
		response.InternalError(w)
	}
}
