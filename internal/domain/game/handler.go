package game

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/slug"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// Handler handles game HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates game handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateGameRequest for POST /games (superuser seeding)
type CreateGameRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	CategoryID  string `json:"category_id" validate:"omitempty,uuid"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IconURL     string `json:"icon_url" validate:"omitempty,url,max=500"`
}

// GameResponse represents a game in API responses
type GameResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	IconURL     string    `json:"icon_url,omitempty"`
}

func newGameResponse(g *Game) GameResponse {
	return GameResponse{
		ID:          g.ID,
		Name:        g.Name,
		Slug:        g.Slug,
		Description: g.Description.String,
		IconURL:     g.IconURL.String,
	}
}

// List handles GET /games
// @Summary List games
// @Tags Games
// @Produce json
// @Param search query string false "Name filter"
// @Success 200 {object} response.Response{data=[]GameResponse}
// @Router /games [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var categoryID *uuid.UUID
	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid category_id")
			return
		}
		categoryID = &id
	}

	games, err := h.repo.List(r.Context(), q.Get("search"), categoryID, parseInt(q.Get("limit")), parseInt(q.Get("offset")))
	if err != nil {
		log.Error().Err(err).Msg("failed to list games")
		response.InternalError(w)
		return
	}

	out := make([]GameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, newGameResponse(g))
	}
	response.OK(w, out)
}

// Get handles GET /games/{slug}
// @Summary Get game by slug
// @Tags Games
// @Produce json
// @Success 200 {object} response.Response{data=GameResponse}
// @Failure 404 {object} response.Response
// @Router /games/{slug} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.repo.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		log.Error().Err(err).Msg("failed to get game")
		response.InternalError(w)
		return
	}
	if g == nil {
		response.NotFound(w, "Game not found")
		return
	}
	response.OK(w, newGameResponse(g))
}

// ListCategories handles GET /games/categories
// @Summary List game categories
// @Tags Games
// @Produce json
// @Success 200 {object} response.Response{data=[]Category}
// @Router /games/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")
		response.InternalError(w)
		return
	}
	response.OK(w, categories)
}

// Create handles POST /games (superuser only)
// @Summary Create a game
// @Tags Games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGameRequest true "Game data"
// @Success 201 {object} response.Response{data=GameResponse}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /games [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	gameSlug := slug.Slugify(req.Name)
	if existing, _ := h.repo.GetBySlug(r.Context(), gameSlug); existing != nil {
		response.Conflict(w, "Game already exists")
		return
	}

	g := &Game{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      gameSlug,
		CreatedAt: time.Now(),
	}
	if req.CategoryID != "" {
		id, _ := uuid.Parse(req.CategoryID)
		g.CategoryID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if req.Description != "" {
		g.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.IconURL != "" {
		g.IconURL = sql.NullString{String: req.IconURL, Valid: true}
	}

	if err := h.repo.Create(r.Context(), g); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create game")
		response.InternalError(w)
		return
	}

	response.Created(w, newGameResponse(g))
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
