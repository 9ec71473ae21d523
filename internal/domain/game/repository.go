package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines game data access interface
type Repository interface {
	Create(ctx context.Context, g *Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	GetBySlug(ctx context.Context, slug string) (*Game, error)
	List(ctx context.Context, search string, categoryID *uuid.UUID, limit, offset int) ([]*Game, error)
	ListCategories(ctx context.Context) ([]*Category, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new game repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Game) error {
	query := `
		INSERT INTO games (id, category_id, name, slug, description, icon_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.CategoryID, g.Name, g.Slug, g.Description, g.IconURL, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	query := `SELECT * FROM games WHERE id = $1`
	var g Game
	err := r.db.GetContext(ctx, &g, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Game, error) {
	query := `SELECT * FROM games WHERE slug = $1`
	var g Game
	err := r.db.GetContext(ctx, &g, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) List(ctx context.Context, search string, categoryID *uuid.UUID, limit, offset int) ([]*Game, error) {
	query := `SELECT * FROM games WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if search != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, argPos)
		args = append(args, "%"+search+"%")
		argPos++
	}
	if categoryID != nil {
		query += fmt.Sprintf(` AND category_id = $%d`, argPos)
		args = append(args, *categoryID)
		argPos++
	}

	query += ` ORDER BY name ASC`

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

	var games []*Game
	err := r.db.SelectContext(ctx, &games, query, args...)
	return games, err
}

func (r *repository) ListCategories(ctx context.Context) ([]*Category, error) {
	query := `SELECT * FROM game_categories ORDER BY name ASC`
	var categories []*Category
	err := r.db.SelectContext(ctx, &categories, query)
	return categories, err
}
