package notification

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Kind represents notification kind
type Kind string

const (
	KindPokeReceived   Kind = "poke_received"
	KindPokeResponded  Kind = "poke_responded"
	KindFriendRequest  Kind = "friend_request"
	KindFriendAccepted Kind = "friend_accepted"
	KindNewMessage     Kind = "new_message"
)

// Notification represents a user notification
type Notification struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	UserID    uuid.UUID    `db:"user_id" json:"user_id"`
	Kind      Kind         `db:"kind" json:"kind"`
	Body      string       `db:"body" json:"body"`
	IsRead    bool         `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
