package game

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Category groups games (MMORPG, MOBA, FPS, ...)
type Category struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
	Slug string    `db:"slug" json:"slug"`
}

// Game is a title characters belong to
type Game struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	CategoryID  uuid.NullUUID  `db:"category_id" json:"category_id,omitempty"`
	Name        string         `db:"name" json:"name"`
	Slug        string         `db:"slug" json:"slug"`
	Description sql.NullString `db:"description" json:"-"`
	IconURL     sql.NullString `db:"icon_url" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
