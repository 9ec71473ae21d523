package profile

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
	"github.com/nickfinder/nickfinder-api/internal/domain/user"
)

// UserResolver resolves accounts by username.
type UserResolver interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// FriendChecker answers whether two users share an accepted
// friendship through any of their characters.
type FriendChecker interface {
	AreUsersFriends(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

// Service handles profile business logic
type Service struct {
	repo    Repository
	users   UserResolver
	friends FriendChecker
}

// NewService creates profile service
func NewService(repo Repository, users UserResolver, friends FriendChecker) *Service {
	return &Service{repo: repo, users: users, friends: friends}
}

// Get returns the profile behind a username, subject to its visibility.
// viewerID is uuid.Nil for anonymous requests. A hidden profile yields
// ErrProfilePrivate, which is distinct from an unknown username.
func (s *Service) Get(ctx context.Context, viewerID uuid.UUID, username string) (*Response, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrProfileNotFound
	}

	p, err := s.repo.GetByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		// No row yet: the profile exists implicitly and is public.
		p = &Profile{UserID: u.ID, Visibility: VisibilityPublic, UpdatedAt: u.CreatedAt}
	}

	isSelf := viewerID != uuid.Nil && viewerID == u.ID
	areFriends := false
	if !isSelf && viewerID != uuid.Nil && p.Visibility == VisibilityFriends {
		areFriends, err = s.friends.AreUsersFriends(ctx, viewerID, u.ID)
		if err != nil {
			return nil, err
		}
	}

	if !gate.CanViewProfile(p.Visibility, areFriends, isSelf) {
		return nil, ErrProfilePrivate
	}

	resp := NewResponse(u.Username, p)
	return &resp, nil
}

// Update applies the non-nil fields to the caller's own profile,
// creating it on first use.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateRequest) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &Profile{UserID: userID, Visibility: VisibilityPublic}
	}

	if req.Bio != nil {
		p.Bio = sql.NullString{String: *req.Bio, Valid: *req.Bio != ""}
	}
	if req.Visibility != nil {
		p.Visibility = *req.Visibility
	}
	if req.Discord != nil {
		p.Discord = sql.NullString{String: *req.Discord, Valid: *req.Discord != ""}
	}
	if req.Twitter != nil {
		p.Twitter = sql.NullString{String: *req.Twitter, Valid: *req.Twitter != ""}
	}
	if req.Website != nil {
		p.Website = sql.NullString{String: *req.Website, Valid: *req.Website != ""}
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
