package friendship

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
)

// CharacterResolver resolves characters for request handling.
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

// Service handles friendship business logic
type Service struct {
	repo       Repository
	characters CharacterResolver
	gate       SnapshotLoader
	notifier   Notifier // nil disables notifications
}

// NewService creates friendship service
func NewService(repo Repository, characters CharacterResolver, gateChecker SnapshotLoader, notifier Notifier) *Service {
	return &Service{
		repo:       repo,
		characters: characters,
		gate:       gateChecker,
		notifier:   notifier,
	}
}

// Send creates a pending friend request between two characters.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req *SendRequest) (*Friendship, error) {
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
	if err := snapshot.CheckFriendRequest(); err != nil {
		return nil, mapGateError(err)
	}

	now := time.Now()
	f := &Friendship{
		ID:          uuid.New(),
		RequesterID: from.ID,
		AddresseeID: to.ID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Message != "" {
		f.Message = sql.NullString{String: req.Message, Valid: true}
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, to.UserID, "friend_request", from.Nickname+" sent you a friend request")
	}
	return f, nil
}

// Accept resolves a pending request. Only the addressee's owner may
// accept; an already-resolved request is a conflict, not a surprise
// success.
func (s *Service) Accept(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Friendship, error) {
	f, addressee, err := s.getForAddressee(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.ResolveIfPending(ctx, id, StatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyResolved
	}
	f.Status = StatusAccepted

	if s.notifier != nil {
		if requester, err := s.characters.GetByID(ctx, f.RequesterID); err == nil {
			s.notifier.Notify(ctx, requester.UserID, "friend_accepted", addressee.Nickname+" accepted your friend request")
		}
	}
	return f, nil
}

// Decline resolves a pending request silently. The requester is not
// notified and may request again later.
func (s *Service) Decline(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if _, _, err := s.getForAddressee(ctx, userID, id); err != nil {
		return err
	}

	ok, err := s.repo.ResolveIfPending(ctx, id, StatusDeclined)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyResolved
	}
	return nil
}

// Cancel lets the requester withdraw a still-pending request.
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrRequestNotFound
	}

	requester, err := s.characters.GetByID(ctx, f.RequesterID)
	if err != nil {
		return err
	}
	if requester.UserID != userID {
		return ErrNotRequester
	}
	if f.Status != StatusPending {
		return ErrAlreadyResolved
	}

	return s.repo.Delete(ctx, id)
}

// ListIncoming returns pending requests addressed to any of the user's
// characters.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	return s.repo.ListPendingIncoming(ctx, userID)
}

// ListOutgoing returns pending requests sent by any of the user's
// characters.
func (s *Service) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	return s.repo.ListPendingOutgoing(ctx, userID)
}

// ListFriends returns the accepted friends of a character, resolved to
// the counterpart characters.
func (s *Service) ListFriends(ctx context.Context, slug string) ([]*character.Character, error) {
	c, err := s.characters.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	friendships, err := s.repo.ListFriendsOf(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	friends := make([]*character.Character, 0, len(friendships))
	for _, f := range friendships {
		otherID := f.RequesterID
		if otherID == c.ID {
			otherID = f.AddresseeID
		}
		other, err := s.characters.GetByID(ctx, otherID)
		if err != nil {
			continue
		}
		friends = append(friends, other)
	}
	return friends, nil
}

// ToResponse enriches a friendship with its character refs.
func (s *Service) ToResponse(ctx context.Context, f *Friendship) (*RequestResponse, error) {
	requester, err := s.characters.GetByID(ctx, f.RequesterID)
	if err != nil {
		return nil, err
	}
	addressee, err := s.characters.GetByID(ctx, f.AddresseeID)
	if err != nil {
		return nil, err
	}
	return &RequestResponse{
		ID:        f.ID,
		Requester: NewCharacterRef(requester),
		Addressee: NewCharacterRef(addressee),
		Message:   f.Message.String,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
	}, nil
}

func (s *Service) getForAddressee(ctx context.Context, userID, id uuid.UUID) (*Friendship, *character.Character, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, ErrRequestNotFound
	}

	addressee, err := s.characters.GetByID(ctx, f.AddresseeID)
	if err != nil {
		return nil, nil, err
	}
	if addressee.UserID != userID {
		return nil, nil, ErrNotAddressee
	}
	return f, addressee, nil
}

func mapGateError(err error) error {
	switch err {
	case gate.ErrSelfAction:
		return ErrSelfRequest
	case gate.ErrBlocked:
		return ErrBlocked
	case gate.ErrDuplicateRequest:
		return ErrDuplicateRequest
	default:
		return err
	}
}
