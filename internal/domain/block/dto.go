package block

import (
	"time"

	"github.com/google/uuid"
)

// BlockRequest for POST /blocks
type BlockRequest struct {
	FromCharacter string `json:"from_character" validate:"required"`
	Character     string `json:"character" validate:"required"`
	Reason        string `json:"reason" validate:"omitempty,max=500"`
	ReportSpam    bool   `json:"report_spam"`
}

// UnblockRequest for DELETE /blocks
type UnblockRequest struct {
	FromCharacter string `json:"from_character" validate:"required"`
	Character     string `json:"character" validate:"required"`
}

// Response represents a block in API responses.
type Response struct {
	ID         uuid.UUID `json:"id"`
	BlockerID  uuid.UUID `json:"blocker_id"`
	BlockedID  uuid.UUID `json:"blocked_id"`
	Reason     string    `json:"reason,omitempty"`
	ReportSpam bool      `json:"report_spam"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewResponse builds a Response from an entity.
func NewResponse(b *Block) Response {
	return Response{
		ID:         b.ID,
		BlockerID:  b.BlockerID,
		BlockedID:  b.BlockedID,
		Reason:     b.Reason.String,
		ReportSpam: b.ReportSpam,
		CreatedAt:  b.CreatedAt,
	}
}
