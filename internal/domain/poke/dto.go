package poke

import (
	"time"

	"github.com/google/uuid"
)

// SendRequest for POST /pokes
type SendRequest struct {
	FromCharacter string `json:"from_character" validate:"required"`
	ToCharacter   string `json:"to_character" validate:"required"`
	Content       string `json:"content" validate:"required,max=100"`
}

// RespondRequest for POST /pokes/{id}/respond
type RespondRequest struct {
	Content string `json:"content" validate:"required,max=100"`
}

// Response represents a poke in API responses.
type Response struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	Content    string     `json:"content"`
	Status     Status     `json:"status"`
	ReplyToID  *uuid.UUID `json:"reply_to_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewResponse builds a Response from an entity.
func NewResponse(p *Poke) Response {
	resp := Response{
		ID:         p.ID,
		SenderID:   p.SenderID,
		ReceiverID: p.ReceiverID,
		Content:    p.Content,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
	}
	if p.ReplyToID.Valid {
		id := p.ReplyToID.UUID
		resp.ReplyToID = &id
	}
	return resp
}
