package character

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Character is a game persona owned by exactly one user. Ownership
// never changes; a character is deleted, not transferred.
type Character struct {
	ID          uuid.UUID      `db:"id"`
	Ref         int64          `db:"ref"` // serial used in the public slug
	UserID      uuid.UUID      `db:"user_id"`
	GameID      uuid.UUID      `db:"game_id"`
	Nickname    string         `db:"nickname"`
	Slug        string         `db:"slug"`
	Description sql.NullString `db:"description"`
	ActiveFrom  sql.NullInt32  `db:"active_from"`
	ActiveTo    sql.NullInt32  `db:"active_to"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
