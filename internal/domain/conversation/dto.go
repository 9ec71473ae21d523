package conversation

import (
	"time"

	"github.com/google/uuid"
)

// SendMessageRequest is the payload for sending a message.
type SendMessageRequest struct {
	FromCharacter string `json:"from_character" validate:"required"`
	ToCharacter   string `json:"to_character" validate:"required"`
	Content       string `json:"content" validate:"required,max=2000"`
}

// MessageResponse is the API shape of a message.
type MessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	ThreadID  uuid.UUID  `json:"thread_id"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Content   string     `json:"content"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewMessageResponse maps a message to its API shape.
func NewMessageResponse(m *Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	if m.ReadAt.Valid {
		resp.ReadAt = &m.ReadAt.Time
	}
	return resp
}

// ThreadParticipant is a participant summary inside a thread listing.
type ThreadParticipant struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Nickname string    `json:"nickname"`
}

// ThreadResponse is the API shape of a thread with its unread count.
type ThreadResponse struct {
	ID                 uuid.UUID         `json:"id"`
	CharacterA         ThreadParticipant `json:"character_a"`
	CharacterB         ThreadParticipant `json:"character_b"`
	LastMessageAt      *time.Time        `json:"last_message_at,omitempty"`
	LastMessagePreview string            `json:"last_message_preview,omitempty"`
	UnreadCount        int               `json:"unread_count"`
	CreatedAt          time.Time         `json:"created_at"`
}

// NewThreadResponse maps a thread view to its API shape.
func NewThreadResponse(v *ThreadView) ThreadResponse {
	resp := ThreadResponse{
		ID: v.ID,
		CharacterA: ThreadParticipant{
			ID:       v.CharacterAID,
			Slug:     v.CharacterASlug,
			Nickname: v.CharacterANickname,
		},
		CharacterB: ThreadParticipant{
			ID:       v.CharacterBID,
			Slug:     v.CharacterBSlug,
			Nickname: v.CharacterBNickname,
		},
		UnreadCount: v.UnreadCount,
		CreatedAt:   v.CreatedAt,
	}
	if v.LastMessageAt.Valid {
		resp.LastMessageAt = &v.LastMessageAt.Time
	}
	if v.LastMessagePreview.Valid {
		resp.LastMessagePreview = v.LastMessagePreview.String
	}
	return resp
}
