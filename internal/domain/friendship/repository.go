package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines friendship data access interface
type Repository interface {
	Create(ctx context.Context, f *Friendship) error
	GetByID(ctx context.Context, id uuid.UUID) (*Friendship, error)
	GetActiveBetween(ctx context.Context, a, b uuid.UUID) (*Friendship, error)
	// ResolveIfPending flips a pending request to status atomically and
	// reports whether the row was still pending.
	ResolveIfPending(ctx context.Context, id uuid.UUID, status Status) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]*Friendship, error)
	ListPendingOutgoing(ctx context.Context, userID uuid.UUID) ([]*Friendship, error)
	ListFriendsOf(ctx context.Context, characterID uuid.UUID) ([]*Friendship, error)

	// FriendshipState implements the interaction gate's reader.
	FriendshipState(ctx context.Context, a, b uuid.UUID) (pending, accepted bool, err error)

	// AreUsersFriends reports whether any accepted friendship links a
	// character of one user to a character of the other.
	AreUsersFriends(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new friendship repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Friendship) error {
	query := `
		INSERT INTO friendships (id, requester_id, addressee_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.RequesterID, f.AddresseeID, f.Message, f.Status, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Friendship, error) {
	query := `SELECT * FROM friendships WHERE id = $1`
	var f Friendship
	err := r.db.GetContext(ctx, &f, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) GetActiveBetween(ctx context.Context, a, b uuid.UUID) (*Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE status IN ('pending', 'accepted')
		  AND ((requester_id = $1 AND addressee_id = $2)
		    OR (requester_id = $2 AND addressee_id = $1))
		ORDER BY created_at DESC
		LIMIT 1
	`
	var f Friendship
	err := r.db.GetContext(ctx, &f, query, a, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) ResolveIfPending(ctx context.Context, id uuid.UUID, status Status) (bool, error) {
	query := `
		UPDATE friendships
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

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM friendships WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	query := `
		SELECT f.* FROM friendships f
		JOIN characters c ON c.id = f.addressee_id
		WHERE c.user_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at DESC
	`
	var items []*Friendship
	err := r.db.SelectContext(ctx, &items, query, userID)
	return items, err
}

func (r *repository) ListPendingOutgoing(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	query := `
		SELECT f.* FROM friendships f
		JOIN characters c ON c.id = f.requester_id
		WHERE c.user_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at DESC
	`
	var items []*Friendship
	err := r.db.SelectContext(ctx, &items, query, userID)
	return items, err
}

func (r *repository) ListFriendsOf(ctx context.Context, characterID uuid.UUID) ([]*Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE status = 'accepted'
		  AND (requester_id = $1 OR addressee_id = $1)
		ORDER BY updated_at DESC
	`
	var items []*Friendship
	err := r.db.SelectContext(ctx, &items, query, characterID)
	return items, err
}

func (r *repository) AreUsersFriends(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friendships f
			JOIN characters cr ON cr.id = f.requester_id
			JOIN characters ca ON ca.id = f.addressee_id
			WHERE f.status = 'accepted'
			  AND ((cr.user_id = $1 AND ca.user_id = $2)
			    OR (cr.user_id = $2 AND ca.user_id = $1))
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userA, userB); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) FriendshipState(ctx context.Context, a, b uuid.UUID) (bool, bool, error) {
	f, err := r.GetActiveBetween(ctx, a, b)
	if err != nil {
		return false, false, err
	}
	if f == nil {
		return false, false, nil
	}
	return f.Status == StatusPending, f.Status == StatusAccepted, nil
}
