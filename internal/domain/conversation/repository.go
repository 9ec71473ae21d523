package conversation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines conversation data access interface
type Repository interface {
	CreateThread(ctx context.Context, t *Thread) error
	GetThreadByID(ctx context.Context, id uuid.UUID) (*Thread, error)
	GetThreadByCharacters(ctx context.Context, a, b uuid.UUID) (*Thread, error)
	ListThreadsByUser(ctx context.Context, userID uuid.UUID) ([]*ThreadView, error)

	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkRead(ctx context.Context, threadID, readerCharacterID uuid.UUID) error
	CountUnreadByThread(ctx context.Context, threadID, readerCharacterID uuid.UUID) (int, error)
	CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new conversation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateThread(ctx context.Context, t *Thread) error {
	query := `
		INSERT INTO threads (id, character_a_id, character_b_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.CharacterAID, t.CharacterBID, t.CreatedAt)
	return err
}

func (r *repository) GetThreadByID(ctx context.Context, id uuid.UUID) (*Thread, error) {
	var t Thread
	err := r.db.GetContext(ctx, &t, `SELECT * FROM threads WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetThreadByCharacters(ctx context.Context, a, b uuid.UUID) (*Thread, error) {
	query := `
		SELECT * FROM threads
		WHERE (character_a_id = $1 AND character_b_id = $2)
		   OR (character_a_id = $2 AND character_b_id = $1)
	`
	var t Thread
	err := r.db.GetContext(ctx, &t, query, a, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListThreadsByUser(ctx context.Context, userID uuid.UUID) ([]*ThreadView, error) {
	query := `
		SELECT t.*,
		       ca.slug AS character_a_slug, ca.nickname AS character_a_nickname,
		       cb.slug AS character_b_slug, cb.nickname AS character_b_nickname,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.thread_id = t.id AND m.sender_id <> own.id AND NOT m.is_read) AS unread_count
		FROM threads t
		JOIN characters own ON own.id IN (t.character_a_id, t.character_b_id) AND own.user_id = $1
		JOIN characters ca ON ca.id = t.character_a_id
		JOIN characters cb ON cb.id = t.character_b_id
		ORDER BY t.last_message_at DESC NULLS LAST, t.created_at DESC
	`
	var views []*ThreadView
	err := r.db.SelectContext(ctx, &views, query, userID)
	return views, err
}

const previewRunes = 97

// previewOf shortens content for the thread list. Truncation counts
// runes, not bytes, so Polish text never ends mid-character.
func previewOf(content string) string {
	r := []rune(content)
	if len(r) <= previewRunes {
		return content
	}
	return string(r[:previewRunes]) + "..."
}

// CreateMessage inserts the message and bumps the thread's last
// message marker in one transaction.
func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO messages (id, thread_id, sender_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, query,
		msg.ID, msg.ThreadID, msg.SenderID, msg.Content, msg.IsRead, msg.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE threads
		SET last_message_at = $2, last_message_preview = $3
		WHERE id = $1
	`, msg.ThreadID, msg.CreatedAt, previewOf(msg.Content))
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ListMessages(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*Message, error) {
	query := `
		SELECT * FROM messages
		WHERE thread_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	var messages []*Message
	err := r.db.SelectContext(ctx, &messages, query, threadID, limit, offset)
	return messages, err
}

// MarkRead marks messages sent by the other participant as read.
func (r *repository) MarkRead(ctx context.Context, threadID, readerCharacterID uuid.UUID) error {
	query := `
		UPDATE messages
		SET is_read = true, read_at = NOW()
		WHERE thread_id = $1
		  AND sender_id <> $2
		  AND NOT is_read
	`
	_, err := r.db.ExecContext(ctx, query, threadID, readerCharacterID)
	return err
}

func (r *repository) CountUnreadByThread(ctx context.Context, threadID, readerCharacterID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages
		WHERE thread_id = $1 AND sender_id <> $2 AND NOT is_read
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, threadID, readerCharacterID)
	return count, err
}

func (r *repository) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages m
		JOIN threads t ON t.id = m.thread_id
		JOIN characters c ON c.id IN (t.character_a_id, t.character_b_id)
		WHERE c.user_id = $1 AND m.sender_id <> c.id AND NOT m.is_read
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
