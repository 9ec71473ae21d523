package moderation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
)

// Handler handles moderation HTTP requests (superuser only)
type Handler struct {
	repo Repository
}

// NewHandler creates moderation handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ReviewRequest for POST /moderation/reports/{id}/review
type ReviewRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// ReportResponse represents a spam report in API responses.
type ReportResponse struct {
	ID         uuid.UUID    `json:"id"`
	ReporterID uuid.UUID    `json:"reporter_id"`
	ReportedID uuid.UUID    `json:"reported_id"`
	Reason     string       `json:"reason,omitempty"`
	Status     ReportStatus `json:"status"`
	AdminNotes string       `json:"admin_notes,omitempty"`
	CreatedAt  string       `json:"created_at"`
}

func newReportResponse(r *Report) ReportResponse {
	return ReportResponse{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		ReportedID: r.ReportedID,
		Reason:     r.Reason.String,
		Status:     r.Status,
		AdminNotes: r.AdminNotes.String,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List handles GET /moderation/reports
// @Summary List spam reports
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or reviewed"
// @Success 200 {object} response.Response{data=[]ReportResponse}
// @Router /moderation/reports [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &ListFilter{Status: ReportStatus(q.Get("status"))}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	reports, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list spam reports")
		response.InternalError(w)
		return
	}

	total, err := h.repo.Count(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count spam reports")
		response.InternalError(w)
		return
	}

	out := make([]ReportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, newReportResponse(rep))
	}
	response.WithMeta(w, out, response.Meta{Total: total, Limit: filter.Limit})
}

// Review handles POST /moderation/reports/{id}/review
// @Summary Mark a spam report reviewed
// @Tags Moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReviewRequest true "Review notes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /moderation/reports/{id}/review [post]
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report id")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.repo.MarkReviewed(r.Context(), id, req.Notes); err != nil {
		if err == ErrReportNotFound {
			response.NotFound(w, "Report not found")
			return
		}
		log.Error().Err(err).Msg("failed to review spam report")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Report reviewed"})
}
