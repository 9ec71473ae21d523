package block

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nickfinder/nickfinder-api/internal/domain/moderation"
)

// Repository defines block data access interface
type Repository interface {
	// CreateWithSideEffects inserts the block row, resolves any pending
	// pokes between the pair to ignored and, when report is non-nil,
	// files the spam report. All of it commits or none of it does.
	CreateWithSideEffects(ctx context.Context, b *Block, report *moderation.Report) error
	Get(ctx context.Context, blockerID, blockedID uuid.UUID) (*Block, error)
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Block, error)

	// IsBlockedEitherWay implements the interaction gate's reader.
	IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new block repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithSideEffects(ctx context.Context, b *Block, report *moderation.Report) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin block transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blocks (id, blocker_id, blocked_id, reason, report_spam, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.BlockerID, b.BlockedID, b.Reason, b.ReportSpam, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}

	// A block resolves in-flight pokes between the pair. Resolved pokes
	// stay resolved after an unblock.
	_, err = tx.ExecContext(ctx, `
		UPDATE pokes
		SET status = 'ignored', updated_at = NOW()
		WHERE status = 'pending'
		  AND ((sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1))
	`, b.BlockerID, b.BlockedID)
	if err != nil {
		return fmt.Errorf("failed to resolve pending pokes: %w", err)
	}

	if report != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO spam_reports (id, reporter_id, reported_id, reason, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, report.ID, report.ReporterID, report.ReportedID, report.Reason, report.Status, report.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create spam report: %w", err)
		}
	}

	return tx.Commit()
}

func (r *repository) Get(ctx context.Context, blockerID, blockedID uuid.UUID) (*Block, error) {
	query := `SELECT * FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	var b Block
	err := r.db.GetContext(ctx, &b, query, blockerID, blockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Delete is idempotent: removing an absent block is not an error.
func (r *repository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	_, err := r.db.ExecContext(ctx, query, blockerID, blockedID)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Block, error) {
	query := `
		SELECT b.* FROM blocks b
		JOIN characters c ON c.id = b.blocker_id
		WHERE c.user_id = $1
		ORDER BY b.created_at DESC
	`
	var blocks []*Block
	err := r.db.SelectContext(ctx, &blocks, query, userID)
	return blocks, err
}

func (r *repository) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, a, b)
	return exists, err
}
