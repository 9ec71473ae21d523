package friendship

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status values. Pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Friendship links two characters. Requester sent the request;
// addressee accepts or declines. Declined rows stay for history but
// never show up in friend lists or gate checks.
type Friendship struct {
	ID          uuid.UUID      `db:"id"`
	RequesterID uuid.UUID      `db:"requester_id"`
	AddresseeID uuid.UUID      `db:"addressee_id"`
	Message     sql.NullString `db:"message"`
	Status      Status         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
