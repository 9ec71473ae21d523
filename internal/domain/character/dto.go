package character

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest for POST /characters
type CreateRequest struct {
	Nickname    string `json:"nickname" validate:"required,min=1,max=50"`
	GameID      string `json:"game_id" validate:"required,uuid"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	ActiveFrom  int    `json:"active_from" validate:"omitempty,min=1900,max=2099"`
	ActiveTo    int    `json:"active_to" validate:"omitempty,min=1900,max=2099,gtefield=ActiveFrom"`
}

// UpdateRequest for PATCH /characters/{slug}
type UpdateRequest struct {
	Nickname    *string `json:"nickname" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ActiveFrom  *int    `json:"active_from" validate:"omitempty,min=1900,max=2099"`
	ActiveTo    *int    `json:"active_to" validate:"omitempty,min=1900,max=2099"`
}

// Response represents a character in API responses
type Response struct {
	ID          uuid.UUID `json:"id"`
	Nickname    string    `json:"nickname"`
	Slug        string    `json:"slug"`
	GameID      uuid.UUID `json:"game_id"`
	GameName    string    `json:"game_name,omitempty"`
	Description string    `json:"description,omitempty"`
	ActiveFrom  int       `json:"active_from,omitempty"`
	ActiveTo    int       `json:"active_to,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewResponse builds a Response from an entity
func NewResponse(c *Character) Response {
	return Response{
		ID:          c.ID,
		Nickname:    c.Nickname,
		Slug:        c.Slug,
		GameID:      c.GameID,
		Description: c.Description.String,
		ActiveFrom:  int(c.ActiveFrom.Int32),
		ActiveTo:    int(c.ActiveTo.Int32),
		AvatarURL:   c.AvatarURL.String,
		OwnerID:     c.UserID,
		CreatedAt:   c.CreatedAt,
	}
}
