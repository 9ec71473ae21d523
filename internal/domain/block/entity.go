package block

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Block is one-directional suppression of interaction between two
// characters. Existing conversations, pokes and friendships are left
// in place; the gate denies new actions while the block stands.
type Block struct {
	ID         uuid.UUID      `db:"id"`
	BlockerID  uuid.UUID      `db:"blocker_id"`
	BlockedID  uuid.UUID      `db:"blocked_id"`
	Reason     sql.NullString `db:"reason"`
	ReportSpam bool           `db:"report_spam"`
	CreatedAt  time.Time      `db:"created_at"`
}
