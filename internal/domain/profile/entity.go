package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Visibility values match the visibility column constraint
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// Profile holds descriptive, user-editable data shown on the profile
// page. One row per user, created on first update.
type Profile struct {
	UserID     uuid.UUID      `db:"user_id"`
	Bio        sql.NullString `db:"bio"`
	Visibility string         `db:"visibility"`
	Discord    sql.NullString `db:"discord"`
	Twitter    sql.NullString `db:"twitter"`
	Website    sql.NullString `db:"website"`
	UpdatedAt  time.Time      `db:"updated_at"`
}
