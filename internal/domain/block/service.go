package block

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/moderation"
)

// CharacterResolver resolves characters for block handling.
type CharacterResolver interface {
	GetBySlug(ctx context.Context, slug string) (*character.Character, error)
	GetOwned(ctx context.Context, userID uuid.UUID, slug string) (*character.Character, error)
	GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error)
}

// Service handles block business logic
type Service struct {
	repo       Repository
	characters CharacterResolver
}

// NewService creates block service
func NewService(repo Repository, characters CharacterResolver) *Service {
	return &Service{repo: repo, characters: characters}
}

// Block suppresses interaction from blocker toward blocked. Blocking a
// character that is already blocked returns the existing block, so the
// call is idempotent.
func (s *Service) Block(ctx context.Context, userID uuid.UUID, req *BlockRequest) (*Block, error) {
	blocker, err := s.characters.GetOwned(ctx, userID, req.FromCharacter)
	if err != nil {
		return nil, err
	}
	target, err := s.characters.GetBySlug(ctx, req.Character)
	if err != nil {
		return nil, err
	}
	if blocker.ID == target.ID {
		return nil, ErrSelfBlock
	}

	existing, err := s.repo.Get(ctx, blocker.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	b := &Block{
		ID:         uuid.New(),
		BlockerID:  blocker.ID,
		BlockedID:  target.ID,
		ReportSpam: req.ReportSpam,
		CreatedAt:  time.Now(),
	}
	if req.Reason != "" {
		b.Reason = sql.NullString{String: req.Reason, Valid: true}
	}

	var report *moderation.Report
	if req.ReportSpam {
		report = &moderation.Report{
			ID:         uuid.New(),
			ReporterID: blocker.ID,
			ReportedID: target.ID,
			Reason:     b.Reason,
			Status:     moderation.ReportStatusPending,
			CreatedAt:  b.CreatedAt,
		}
	}

	if err := s.repo.CreateWithSideEffects(ctx, b, report); err != nil {
		return nil, err
	}
	return b, nil
}

// Unblock removes a block. Unblocking a character that is not blocked
// is a no-op.
func (s *Service) Unblock(ctx context.Context, userID uuid.UUID, req *UnblockRequest) error {
	blocker, err := s.characters.GetOwned(ctx, userID, req.FromCharacter)
	if err != nil {
		return err
	}
	target, err := s.characters.GetBySlug(ctx, req.Character)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, blocker.ID, target.ID)
}

// ListBlocked returns blocks created by any of the user's characters.
func (s *Service) ListBlocked(ctx context.Context, userID uuid.UUID) ([]*Block, error) {
	return s.repo.ListByUser(ctx, userID)
}
