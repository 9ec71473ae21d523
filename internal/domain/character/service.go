package character

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/domain/game"
	"github.com/nickfinder/nickfinder-api/internal/pkg/imaging"
	"github.com/nickfinder/nickfinder-api/internal/pkg/slug"
	"github.com/nickfinder/nickfinder-api/internal/pkg/storage"
)

// Service handles character business logic
type Service struct {
	repo       Repository
	gameRepo   game.Repository
	storage    storage.Storage // nil if object storage disabled
	processor  *imaging.Processor
	slugSecret string
}

// NewService creates character service
func NewService(repo Repository, gameRepo game.Repository, store storage.Storage, processor *imaging.Processor, slugSecret string) *Service {
	return &Service{
		repo:       repo,
		gameRepo:   gameRepo,
		storage:    store,
		processor:  processor,
		slugSecret: slugSecret,
	}
}

// Create creates a character for the user. The public slug embeds the
// generated ref, so the row is inserted first and the slug written back.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Character, error) {
	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		return nil, ErrGameNotFound
	}

	g, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}

	existing, err := s.repo.GetByUserGameNickname(ctx, userID, gameID, req.Nickname)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNicknameTaken
	}

	now := time.Now()
	c := &Character{
		ID:        uuid.New(),
		UserID:    userID,
		GameID:    gameID,
		Nickname:  req.Nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != "" {
		c.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.ActiveFrom != 0 {
		c.ActiveFrom = sql.NullInt32{Int32: int32(req.ActiveFrom), Valid: true}
	}
	if req.ActiveTo != 0 {
		c.ActiveTo = sql.NullInt32{Int32: int32(req.ActiveTo), Valid: true}
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	c.Slug = slug.Make(s.slugSecret, c.Nickname, c.Ref)
	if err := s.repo.UpdateSlug(ctx, c.ID, c.Slug); err != nil {
		return nil, err
	}

	return c, nil
}

// GetBySlug resolves a public slug. An unknown ref or a hash that does
// not verify both look like a missing character to the caller.
func (s *Service) GetBySlug(ctx context.Context, slugStr string) (*Character, error) {
	ref, hash, ok := slug.Parse(slugStr)
	if !ok {
		return nil, ErrCharacterNotFound
	}
	if !slug.Verify(s.slugSecret, ref, hash) {
		return nil, ErrCharacterNotFound
	}

	c, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCharacterNotFound
	}
	return c, nil
}

// GetByID fetches a character by primary key.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Character, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCharacterNotFound
	}
	return c, nil
}

// GetOwned resolves a slug and checks the character belongs to userID.
func (s *Service) GetOwned(ctx context.Context, userID uuid.UUID, slugStr string) (*Character, error) {
	c, err := s.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrNotOwner
	}
	return c, nil
}

// Update applies a partial update to an owned character.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, slugStr string, req *UpdateRequest) (*Character, error) {
	c, err := s.GetOwned(ctx, userID, slugStr)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil && *req.Nickname != c.Nickname {
		existing, err := s.repo.GetByUserGameNickname(ctx, userID, c.GameID, *req.Nickname)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != c.ID {
			return nil, ErrNicknameTaken
		}
		c.Nickname = *req.Nickname
		c.Slug = slug.Make(s.slugSecret, c.Nickname, c.Ref)
	}
	if req.Description != nil {
		c.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.ActiveFrom != nil {
		c.ActiveFrom = sql.NullInt32{Int32: int32(*req.ActiveFrom), Valid: *req.ActiveFrom != 0}
	}
	if req.ActiveTo != nil {
		c.ActiveTo = sql.NullInt32{Int32: int32(*req.ActiveTo), Valid: *req.ActiveTo != 0}
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes an owned character and its avatar object.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, slugStr string) error {
	c, err := s.GetOwned(ctx, userID, slugStr)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}

	if s.storage != nil && c.AvatarURL.Valid {
		if err := s.storage.Delete(ctx, avatarKey(c.ID)); err != nil {
			log.Warn().Err(err).Str("character_id", c.ID.String()).Msg("failed to delete avatar object")
		}
	}
	return nil
}

// ListMine returns all characters owned by the user.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*Character, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Search finds characters by nickname substring, optionally within a game.
func (s *Service) Search(ctx context.Context, nickname string, gameID *uuid.UUID, limit, offset int) ([]*Character, error) {
	return s.repo.Search(ctx, nickname, gameID, limit, offset)
}

// UploadAvatar processes and stores an avatar image for an owned character.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, slugStr string, file io.Reader) (*Character, error) {
	c, err := s.GetOwned(ctx, userID, slugStr)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	data, contentType, err := s.processor.ProcessAvatar(file)
	if err != nil {
		return nil, ErrInvalidAvatar
	}

	url, err := s.storage.Upload(ctx, avatarKey(c.ID), bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.repo.UpdateAvatar(ctx, c.ID, url); err != nil {
		return nil, err
	}
	c.AvatarURL = sql.NullString{String: url, Valid: true}
	return c, nil
}

func avatarKey(id uuid.UUID) string {
	return "avatars/" + id.String() + ".jpg"
}
