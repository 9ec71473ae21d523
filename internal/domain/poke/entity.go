package poke

import (
	"time"

	"github.com/google/uuid"
)

// MaxContentLength caps a poke's one-line greeting.
const MaxContentLength = 100

// Status values. Pending is the only non-terminal state and only the
// receiver moves a poke out of it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusResponded Status = "responded"
	StatusIgnored   Status = "ignored"
)

// Poke is a one-line greeting between two characters. A responded
// poke plus its reply form the exchange that unlocks messaging.
type Poke struct {
	ID         uuid.UUID     `db:"id"`
	SenderID   uuid.UUID     `db:"sender_id"`
	ReceiverID uuid.UUID     `db:"receiver_id"`
	Content    string        `db:"content"`
	Status     Status        `db:"status"`
	ReplyToID  uuid.NullUUID `db:"reply_to_id"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}
