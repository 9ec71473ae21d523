package poke

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
)

// CharacterResolver resolves characters for poke handling.
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

// Service handles poke business logic
type Service struct {
	repo       Repository
	characters CharacterResolver
	gate       SnapshotLoader
	limiter    Limiter
	notifier   Notifier // nil disables notifications
}

// NewService creates poke service
func NewService(repo Repository, characters CharacterResolver, gateChecker SnapshotLoader, limiter Limiter, notifier Notifier) *Service {
	return &Service{
		repo:       repo,
		characters: characters,
		gate:       gateChecker,
		limiter:    limiter,
		notifier:   notifier,
	}
}

// Send creates a pending poke after the gate and quota both pass. The
// gate runs after character resolution so a blocked pair never reaches
// the limiter.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req *SendRequest) (*Poke, error) {
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
	if err := snapshot.CheckPoke(); err != nil {
		return nil, mapGateError(err)
	}

	allowed, remaining, resetAt, err := s.limiter.Allow(ctx, from.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &RateLimitError{Limit: s.limiter.Limit(), Remaining: remaining, ResetAt: resetAt}
	}

	now := time.Now()
	p := &Poke{
		ID:         uuid.New(),
		SenderID:   from.ID,
		ReceiverID: to.ID,
		Content:    req.Content,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, to.UserID, "poke_received", from.Nickname+" poked you")
	}
	return p, nil
}

// Respond marks the poke responded and creates the linked reply. The
// exchange unlocks messaging between the pair.
func (s *Service) Respond(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *RespondRequest) (*Poke, error) {
	p, receiver, err := s.getForReceiver(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reply := &Poke{
		ID:         uuid.New(),
		SenderID:   p.ReceiverID,
		ReceiverID: p.SenderID,
		Content:    req.Content,
		Status:     StatusResponded,
		ReplyToID:  uuid.NullUUID{UUID: p.ID, Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ok, err := s.repo.Respond(ctx, id, reply)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyResolved
	}

	if s.notifier != nil {
		if sender, err := s.characters.GetByID(ctx, p.SenderID); err == nil {
			s.notifier.Notify(ctx, sender.UserID, "poke_responded", receiver.Nickname+" responded to your poke")
		}
	}
	return reply, nil
}

// Ignore dismisses a pending poke. Terminal, receiver only.
func (s *Service) Ignore(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if _, _, err := s.getForReceiver(ctx, userID, id); err != nil {
		return err
	}

	ok, err := s.repo.ResolveIfPending(ctx, id, StatusIgnored)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyResolved
	}
	return nil
}

// Get returns a poke visible to the user (sender's or receiver's owner).
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Poke, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPokeNotFound
	}

	sender, err := s.characters.GetByID(ctx, p.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.characters.GetByID(ctx, p.ReceiverID)
	if err != nil {
		return nil, err
	}
	if sender.UserID != userID && receiver.UserID != userID {
		return nil, ErrPokeNotFound
	}
	return p, nil
}

// ListSent returns pokes sent by the user's characters.
func (s *Service) ListSent(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error) {
	return s.repo.ListSent(ctx, userID, status)
}

// ListReceived returns pokes received by the user's characters.
func (s *Service) ListReceived(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error) {
	return s.repo.ListReceived(ctx, userID, status)
}

func (s *Service) getForReceiver(ctx context.Context, userID, id uuid.UUID) (*Poke, *character.Character, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrPokeNotFound
	}

	receiver, err := s.characters.GetByID(ctx, p.ReceiverID)
	if err != nil {
		return nil, nil, err
	}
	if receiver.UserID != userID {
		return nil, nil, ErrNotReceiver
	}
	return p, receiver, nil
}

func mapGateError(err error) error {
	switch err {
	case gate.ErrSelfAction:
		return ErrSelfPoke
	case gate.ErrBlocked:
		return ErrBlocked
	default:
		return err
	}
}
