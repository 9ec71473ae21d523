package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
)

// CharacterResolver resolves characters for messaging.
type CharacterResolver interface {
	GetBySlug(ctx context.Context, slug string) (*character.Character, error)
	GetOwned(ctx context.Context, userID uuid.UUID, slug string) (*character.Character, error)
	GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error)
}

// SnapshotLoader loads interaction gate snapshots.
type SnapshotLoader interface {
	Load(ctx context.Context, actor, target uuid.UUID) (gate.Snapshot, error)
}

// Notifier delivers best-effort user notifications.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, body string)
}

// Service handles conversation business logic
type Service struct {
	repo       Repository
	characters CharacterResolver
	gate       SnapshotLoader
	hub        *Hub     // nil disables realtime events
	notifier   Notifier // nil disables notifications
}

// NewService creates conversation service
func NewService(repo Repository, characters CharacterResolver, gateChecker SnapshotLoader, hub *Hub, notifier Notifier) *Service {
	return &Service{
		repo:       repo,
		characters: characters,
		gate:       gateChecker,
		hub:        hub,
		notifier:   notifier,
	}
}

// Send delivers a message from one character to another, creating the
// thread on first contact. The gate is evaluated on every send, right
// before the insert, so an existing thread does not bypass a block.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req *SendMessageRequest) (*Message, error) {
	from, err := s.characters.GetOwned(ctx, userID, req.FromCharacter)
	if err != nil {
		return nil, err
	}
	to, err := s.characters.GetBySlug(ctx, req.ToCharacter)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.gate.Load(ctx, from.ID, to.ID)
	if err != nil {
		return nil, err
	}
	if err := snapshot.CheckMessage(); err != nil {
		return nil, mapGateError(err)
	}

	thread, err := s.repo.GetThreadByCharacters(ctx, from.ID, to.ID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		thread = &Thread{
			ID:           uuid.New(),
			CharacterAID: from.ID,
			CharacterBID: to.ID,
			CreatedAt:    time.Now(),
		}
		if err := s.repo.CreateThread(ctx, thread); err != nil {
			return nil, err
		}
	}

	msg := &Message{
		ID:        uuid.New(),
		ThreadID:  thread.ID,
		SenderID:  from.ID,
		Content:   req.Content,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.SubscribeToThread(thread.ID, userID)
		s.hub.BroadcastToThread(thread.ID, &WSEvent{
			Type:     EventNewMessage,
			ThreadID: thread.ID,
			SenderID: from.ID,
			Message:  msg,
		})
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, to.UserID, "new_message", from.Nickname+" sent you a message")
	}

	return msg, nil
}

// ListThreads returns the user's threads with per-thread unread counts.
func (s *Service) ListThreads(ctx context.Context, userID uuid.UUID) ([]*ThreadView, error) {
	return s.repo.ListThreadsByUser(ctx, userID)
}

// GetMessages returns messages of a thread in sent order.
func (s *Service) GetMessages(ctx context.Context, userID, threadID uuid.UUID, limit, offset int) ([]*Message, error) {
	if _, _, err := s.viewerOf(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, threadID, limit, offset)
}

// MarkRead marks the other side's messages as read. Only the viewer
// lowers their own unread count.
func (s *Service) MarkRead(ctx context.Context, userID, threadID uuid.UUID) error {
	thread, viewer, err := s.viewerOf(ctx, userID, threadID)
	if err != nil {
		return err
	}

	if err := s.repo.MarkRead(ctx, threadID, viewer.ID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToThread(thread.ID, &WSEvent{
			Type:     EventRead,
			ThreadID: thread.ID,
			SenderID: viewer.ID,
		})
	}
	return nil
}

// UnreadCount returns the user's total unread message count.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// viewerOf returns the thread and the participant character owned by
// the user, or ErrNotParticipant.
func (s *Service) viewerOf(ctx context.Context, userID, threadID uuid.UUID) (*Thread, *character.Character, error) {
	thread, err := s.repo.GetThreadByID(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	if thread == nil {
		return nil, nil, ErrThreadNotFound
	}

	for _, id := range []uuid.UUID{thread.CharacterAID, thread.CharacterBID} {
		c, err := s.characters.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if c.UserID == userID {
			return thread, c, nil
		}
	}
	return nil, nil, ErrNotParticipant
}

func mapGateError(err error) error {
	switch err {
	case gate.ErrSelfAction:
		return ErrSelfMessage
	case gate.ErrBlocked:
		return ErrBlocked
	case gate.ErrMessagingLocked:
		return ErrMessagingLocked
	default:
		return err
	}
}
