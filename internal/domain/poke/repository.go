package poke

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines poke data access interface
type Repository interface {
	Create(ctx context.Context, p *Poke) error
	GetByID(ctx context.Context, id uuid.UUID) (*Poke, error)
	// Respond atomically marks a pending poke responded and inserts the
	// linked reply. Returns false if the poke was no longer pending.
	Respond(ctx context.Context, id uuid.UUID, reply *Poke) (bool, error)
	ResolveIfPending(ctx context.Context, id uuid.UUID, status Status) (bool, error)
	ListSent(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error)
	ListReceived(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error)

	// HasRespondedPoke implements the interaction gate's reader.
	HasRespondedPoke(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new poke repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const pokeColumns = `id, sender_id, receiver_id, content, status, reply_to_id, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Poke) error {
	query := `
		INSERT INTO pokes (` + pokeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SenderID, p.ReceiverID, p.Content, p.Status, p.ReplyToID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create poke: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Poke, error) {
	query := `SELECT * FROM pokes WHERE id = $1`
	var p Poke
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Respond(ctx context.Context, id uuid.UUID, reply *Poke) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin respond transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the row so a concurrent ignore or block cannot race the
	// status check.
	var status Status
	err = tx.GetContext(ctx, &status, `SELECT status FROM pokes WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if status != StatusPending {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE pokes SET status = 'responded', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pokes (`+pokeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, reply.ID, reply.SenderID, reply.ReceiverID, reply.Content, reply.Status, reply.ReplyToID, reply.CreatedAt, reply.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create reply poke: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) ResolveIfPending(ctx context.Context, id uuid.UUID, status Status) (bool, error) {
	query := `
		UPDATE pokes
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) ListSent(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error) {
	query := `
		SELECT p.* FROM pokes p
		JOIN characters c ON c.id = p.sender_id
		WHERE c.user_id = $1
	`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND p.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at DESC`

	var pokes []*Poke
	err := r.db.SelectContext(ctx, &pokes, query, args...)
	return pokes, err
}

func (r *repository) ListReceived(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error) {
	query := `
		SELECT p.* FROM pokes p
		JOIN characters c ON c.id = p.receiver_id
		WHERE c.user_id = $1
	`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND p.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at DESC`

	var pokes []*Poke
	err := r.db.SelectContext(ctx, &pokes, query, args...)
	return pokes, err
}

func (r *repository) HasRespondedPoke(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM pokes
			WHERE status = 'responded'
			  AND ((sender_id = $1 AND receiver_id = $2)
			    OR (sender_id = $2 AND receiver_id = $1))
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, a, b)
	return exists, err
}
