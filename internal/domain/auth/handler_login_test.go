package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/user"
	"github.com/nickfinder/nickfinder-api/internal/pkg/password"
)

func TestLoginHandlerWrongPasswordReturns401(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "player", Email: "p@example.com", PasswordHash: hash, CreatedAt: time.Now()}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	h := NewHandler(newTestService(repo), nil)

	body, _ := json.Marshal(LoginRequest{Username: "player", Password: "nope-nope"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginHandlerBannedReturns403(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "banned", Email: "b@example.com", PasswordHash: hash, IsBanned: true, CreatedAt: time.Now()}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	h := NewHandler(newTestService(repo), nil)

	body, _ := json.Marshal(LoginRequest{Username: "banned", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Login(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginHandlerSuccessReturns200WithTokens(t *testing.T) {
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Username: "player", Email: "p@example.com", PasswordHash: hash, CreatedAt: time.Now()}
	repo := &fakeUserRepo{byUsername: u, byID: u}
	h := NewHandler(newTestService(repo), nil)

	body, _ := json.Marshal(LoginRequest{Username: "player", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Tokens struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			} `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Data.Tokens.AccessToken == "" || out.Data.Tokens.RefreshToken == "" {
		t.Fatal("expected tokens in response")
	}
}

func TestRegisterHandlerValidationReturns422(t *testing.T) {
	repo := &fakeUserRepo{}
	h := NewHandler(newTestService(repo), nil)

	body, _ := json.Marshal(RegisterRequest{Username: "x", Email: "not-an-email", Password: "short"})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}
