package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Gender values match the gender column constraint
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// User represents a user account
type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsSuperuser  bool      `db:"is_superuser"`
	IsBanned     bool      `db:"is_banned"`

	// Optional profile-adjacent fields carried on the account itself
	Birthday sql.NullTime   `db:"birthday"`
	Gender   sql.NullString `db:"gender"`
	Facebook sql.NullString `db:"facebook"`
	Twitch   sql.NullString `db:"twitch"`

	// Login tracking
	LastLoginAt sql.NullTime   `db:"last_login_at"`
	LastLoginIP sql.NullString `db:"last_login_ip"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsActive returns true if user is not banned
func (u *User) IsActive() bool {
	return !u.IsBanned
}
