package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RealtimePublisher pushes payloads to a user's live WebSocket
// connections. Satisfied by the conversation hub.
type RealtimePublisher interface {
	SendToUserJSON(userID uuid.UUID, payload any) error
}

// Service handles notification logic
type Service struct {
	repo     Repository
	realtime RealtimePublisher // nil disables realtime delivery
}

// NewService creates notification service
func NewService(repo Repository, realtime RealtimePublisher) *Service {
	return &Service{repo: repo, realtime: realtime}
}

// Notify records a notification for the user and pushes it to any live
// connections. Best effort: failures are logged and never propagate to
// the action that triggered the notification.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, body string) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      Kind(kind),
		Body:      body,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Failed to store notification")
		return
	}

	if s.realtime != nil {
		if err := s.realtime.SendToUserJSON(userID, n); err != nil {
			log.Warn().Err(err).Str("kind", kind).Msg("Failed to push notification")
		}
	}
}

// List returns notifications for user
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetUnreadCount returns unread count
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// MarkAsRead marks a single notification as read. Only the owner can.
func (s *Service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all of the user's notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
