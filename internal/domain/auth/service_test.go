package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/user"
	"github.com/nickfinder/nickfinder-api/internal/pkg/jwt"
	"github.com/nickfinder/nickfinder-api/internal/pkg/password"
)

type fakeUserRepo struct {
	created      *user.User
	byUsername   *user.User
	byEmail      *user.User
	byID         *user.User
	passwordHash string
	lastLoginIP  string
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.created = u
	f.byID = u
	f.byUsername = u
	f.byEmail = u
	return nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.byID != nil && f.byID.ID == id {
		return f.byID, nil
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if f.byUsername != nil && f.byUsername.Username == username {
		return f.byUsername, nil
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.byEmail != nil && f.byEmail.Email == email {
		return f.byEmail, nil
	}
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	f.passwordHash = passwordHash
	return nil
}
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	f.lastLoginIP = ip
	return nil
}
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newTestService(repo user.Repository) *Service {
	jwtService := jwt.NewService("secret", time.Minute, time.Hour)
	return NewService(repo, jwtService, nil)
}

func TestRegisterSuccess(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "DarkLord",
		Email:    "NEW@Example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp == nil {
		t.Fatal("expected auth response")
	}
	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", repo.created.Email)
	}
	if repo.created.PasswordHash == "password123" {
		t.Fatal("expected password to be hashed")
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("expected access token")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	hash, _ := password.Hash("whatever1")
	existing := &user.User{ID: uuid.New(), Username: "taken", Email: "taken@example.com", PasswordHash: hash}
	repo := &fakeUserRepo{byUsername: existing, byEmail: existing, byID: existing}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "taken",
		Email:    "other@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	hash, _ := password.Hash("whatever1")
	existing := &user.User{ID: uuid.New(), Username: "someone", Email: "taken@example.com", PasswordHash: hash}
	repo := &fakeUserRepo{byUsername: existing, byEmail: existing, byID: existing}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "fresh",
		Email:    "taken@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "player", Email: "p@example.com", PasswordHash: hash, CreatedAt: time.Now()}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), &LoginRequest{Username: "player", Password: "password123"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("expected login success, err=%v", err)
	}
	if resp == nil || resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected tokens")
	}
	if repo.lastLoginIP != "10.0.0.1" {
		t.Fatalf("expected last login ip recorded, got %q", repo.lastLoginIP)
	}
}

func TestLoginRepeatedIssuesFreshTokens(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "player", Email: "p@example.com", PasswordHash: hash, CreatedAt: time.Now()}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	svc := newTestService(repo)

	first, err := svc.Login(context.Background(), &LoginRequest{Username: "player", Password: "password123"}, "")
	if err != nil {
		t.Fatalf("first login err: %v", err)
	}
	second, err := svc.Login(context.Background(), &LoginRequest{Username: "player", Password: "password123"}, "")
	if err != nil {
		t.Fatalf("second login err: %v", err)
	}
	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("expected a fresh refresh token on repeated login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "player", Email: "p@example.com", PasswordHash: hash}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "player", Password: "wrong-pass"}, "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUsername(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "ghost", Password: "password123"}, "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginBannedUser(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "banned", Email: "b@example.com", PasswordHash: hash, IsBanned: true}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "banned", Password: "password123"}, "")
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestRefreshWithoutStoreFails(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestService(repo)

	if _, err := svc.Refresh(context.Background(), "deadbeef"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}

func TestChangePasswordVerifiesOld(t *testing.T) {
	hash, _ := password.Hash("oldpass123")
	u := &user.User{ID: uuid.New(), Username: "player", Email: "p@example.com", PasswordHash: hash}
	repo := &fakeUserRepo{byID: u}
	svc := newTestService(repo)

	if err := svc.ChangePassword(context.Background(), u.ID, "wrong", "newpass123"); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("expected ErrPasswordIncorrect, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), u.ID, "oldpass123", "newpass123"); err != nil {
		t.Fatalf("expected change to succeed, got %v", err)
	}
	if repo.passwordHash == "" || !password.Verify("newpass123", repo.passwordHash) {
		t.Fatal("expected new hash to be stored")
	}
}
