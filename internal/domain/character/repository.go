package character

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines character data access interface
type Repository interface {
	Create(ctx context.Context, c *Character) error
	GetByID(ctx context.Context, id uuid.UUID) (*Character, error)
	GetByRef(ctx context.Context, ref int64) (*Character, error)
	GetByUserGameNickname(ctx context.Context, userID, gameID uuid.UUID, nickname string) (*Character, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Character, error)
	Search(ctx context.Context, nickname string, gameID *uuid.UUID, limit, offset int) ([]*Character, error)
	Update(ctx context.Context, c *Character) error
	UpdateSlug(ctx context.Context, id uuid.UUID, slug string) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new character repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the row and reads back the generated ref.
func (r *repository) Create(ctx context.Context, c *Character) error {
	query := `
		INSERT INTO characters (
			id, user_id, game_id, nickname, slug, description,
			active_from, active_to, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ref
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.UserID, c.GameID, c.Nickname, c.Slug, c.Description,
		c.ActiveFrom, c.ActiveTo, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.Ref)
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Character, error) {
	query := `SELECT * FROM characters WHERE id = $1`
	var c Character
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByRef(ctx context.Context, ref int64) (*Character, error) {
	query := `SELECT * FROM characters WHERE ref = $1`
	var c Character
	err := r.db.GetContext(ctx, &c, query, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByUserGameNickname(ctx context.Context, userID, gameID uuid.UUID, nickname string) (*Character, error) {
	query := `
		SELECT * FROM characters
		WHERE user_id = $1 AND game_id = $2 AND LOWER(nickname) = LOWER($3)
	`
	var c Character
	err := r.db.GetContext(ctx, &c, query, userID, gameID, nickname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Character, error) {
	query := `SELECT * FROM characters WHERE user_id = $1 ORDER BY created_at DESC`
	var characters []*Character
	err := r.db.SelectContext(ctx, &characters, query, userID)
	return characters, err
}

func (r *repository) Search(ctx context.Context, nickname string, gameID *uuid.UUID, limit, offset int) ([]*Character, error) {
	query := `SELECT * FROM characters WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if nickname != "" {
		query += fmt.Sprintf(` AND nickname ILIKE $%d`, argPos)
		args = append(args, "%"+nickname+"%")
		argPos++
	}
	if gameID != nil {
		query += fmt.Sprintf(` AND game_id = $%d`, argPos)
		args = append(args, *gameID)
		argPos++
	}

	query += ` ORDER BY nickname ASC`

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(` LIMIT $%d`, argPos)
	args = append(args, limit)
	argPos++

	if offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, offset)
	}

	var characters []*Character
	err := r.db.SelectContext(ctx, &characters, query, args...)
	return characters, err
}

func (r *repository) Update(ctx context.Context, c *Character) error {
	query := `
		UPDATE characters
		SET nickname = $1, slug = $2, description = $3,
			active_from = $4, active_to = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		c.Nickname, c.Slug, c.Description, c.ActiveFrom, c.ActiveTo, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

func (r *repository) UpdateSlug(ctx context.Context, id uuid.UUID, slug string) error {
	query := `UPDATE characters SET slug = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, slug, id)
	return err
}

func (r *repository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	query := `UPDATE characters SET avatar_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, avatarURL, id)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM characters WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
