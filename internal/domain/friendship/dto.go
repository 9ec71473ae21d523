package friendship

import (
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
)

// SendRequest for POST /friends/requests
type SendRequest struct {
	FromCharacter string `json:"from_character" validate:"required"`
	ToCharacter   string `json:"to_character" validate:"required"`
	Message       string `json:"message" validate:"omitempty,max=280"`
}

// CharacterRef is the compact character shape embedded in responses.
type CharacterRef struct {
	ID       uuid.UUID `json:"id"`
	Nickname string    `json:"nickname"`
	Slug     string    `json:"slug"`
}

// NewCharacterRef builds a CharacterRef from a character entity.
func NewCharacterRef(c *character.Character) CharacterRef {
	return CharacterRef{ID: c.ID, Nickname: c.Nickname, Slug: c.Slug}
}

// RequestResponse represents a friend request in API responses.
type RequestResponse struct {
	ID        uuid.UUID    `json:"id"`
	Requester CharacterRef `json:"requester"`
	Addressee CharacterRef `json:"addressee"`
	Message   string       `json:"message,omitempty"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
