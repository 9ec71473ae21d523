package conversation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength caps message content.
const MaxMessageLength = 2000

// Thread is a private conversation between two characters. It is
// created lazily on the first message once the pair has unlocked
// messaging through a poke exchange.
type Thread struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	CharacterAID       uuid.UUID      `db:"character_a_id" json:"character_a_id"`
	CharacterBID       uuid.UUID      `db:"character_b_id" json:"character_b_id"`
	LastMessageAt      sql.NullTime   `db:"last_message_at" json:"last_message_at,omitempty"`
	LastMessagePreview sql.NullString `db:"last_message_preview" json:"last_message_preview,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// HasParticipant checks if character is part of this thread
func (t *Thread) HasParticipant(characterID uuid.UUID) bool {
	return t.CharacterAID == characterID || t.CharacterBID == characterID
}

// OtherParticipant returns the other character in the thread
func (t *Thread) OtherParticipant(characterID uuid.UUID) uuid.UUID {
	if t.CharacterAID == characterID {
		return t.CharacterBID
	}
	return t.CharacterAID
}

// Message represents a single message inside a thread. SenderID is a
// character, not a user.
type Message struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	ThreadID  uuid.UUID    `db:"thread_id" json:"thread_id"`
	SenderID  uuid.UUID    `db:"sender_id" json:"sender_id"`
	Content   string       `db:"content" json:"content"`
	IsRead    bool         `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// ThreadView is a thread row joined with both participant characters
// and the unread count for the requesting user's side.
type ThreadView struct {
	Thread
	CharacterASlug     string `db:"character_a_slug"`
	CharacterANickname string `db:"character_a_nickname"`
	CharacterBSlug     string `db:"character_b_slug"`
	CharacterBNickname string `db:"character_b_nickname"`
	UnreadCount        int    `db:"unread_count"`
}
