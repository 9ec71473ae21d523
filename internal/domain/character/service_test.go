package character

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/game"
	"github.com/nickfinder/nickfinder-api/internal/pkg/slug"
)

type fakeRepo struct {
	nextRef int64
	items   map[uuid.UUID]*Character
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextRef: 100, items: map[uuid.UUID]*Character{}}
}

func (f *fakeRepo) Create(ctx context.Context, c *Character) error {
	f.nextRef++
	c.Ref = f.nextRef
	cp := *c
	f.items[c.ID] = &cp
	return nil
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Character, error) {
	if c, ok := f.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}
func (f *fakeRepo) GetByRef(ctx context.Context, ref int64) (*Character, error) {
	for _, c := range f.items {
		if c.Ref == ref {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}
func (f *fakeRepo) GetByUserGameNickname(ctx context.Context, userID, gameID uuid.UUID, nickname string) (*Character, error) {
	for _, c := range f.items {
		if c.UserID == userID && c.GameID == gameID && strings.EqualFold(c.Nickname, nickname) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}
func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Character, error) {
	var out []*Character
	for _, c := range f.items {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (f *fakeRepo) Search(ctx context.Context, nickname string, gameID *uuid.UUID, limit, offset int) ([]*Character, error) {
	var out []*Character
	for _, c := range f.items {
		if nickname != "" && !strings.Contains(strings.ToLower(c.Nickname), strings.ToLower(nickname)) {
			continue
		}
		if gameID != nil && c.GameID != *gameID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}
func (f *fakeRepo) Update(ctx context.Context, c *Character) error {
	cp := *c
	f.items[c.ID] = &cp
	return nil
}
func (f *fakeRepo) UpdateSlug(ctx context.Context, id uuid.UUID, s string) error {
	if c, ok := f.items[id]; ok {
		c.Slug = s
	}
	return nil
}
func (f *fakeRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	return nil
}
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeGameRepo struct {
	games map[uuid.UUID]*game.Game
}

func (f *fakeGameRepo) Create(ctx context.Context, g *game.Game) error { return nil }
func (f *fakeGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	if g, ok := f.games[id]; ok {
		return g, nil
	}
	return nil, nil
}
func (f *fakeGameRepo) GetBySlug(ctx context.Context, slug string) (*game.Game, error) {
	return nil, nil
}
func (f *fakeGameRepo) List(ctx context.Context, search string, categoryID *uuid.UUID, limit, offset int) ([]*game.Game, error) {
	return nil, nil
}
func (f *fakeGameRepo) ListCategories(ctx context.Context) ([]*game.Category, error) {
	return nil, nil
}

const testSecret = "slug-test-secret"

func newTestService() (*Service, *fakeRepo, uuid.UUID) {
	repo := newFakeRepo()
	g := &game.Game{ID: uuid.New(), Name: "Test Game", Slug: "test-game", CreatedAt: time.Now()}
	gameRepo := &fakeGameRepo{games: map[uuid.UUID]*game.Game{g.ID: g}}
	return NewService(repo, gameRepo, nil, nil, testSecret), repo, g.ID
}

func TestCreateAssignsVerifiableSlug(t *testing.T) {
	svc, _, gameID := newTestService()
	userID := uuid.New()

	c, err := svc.Create(context.Background(), userID, &CreateRequest{
		Nickname: "Dark Lord",
		GameID:   gameID.String(),
	})
	if err != nil {
		t.Fatalf("create err: %v", err)
	}
	if !strings.HasPrefix(c.Slug, "dark-lord-") {
		t.Fatalf("unexpected slug %q", c.Slug)
	}

	ref, hash, ok := slug.Parse(c.Slug)
	if !ok || ref != c.Ref {
		t.Fatalf("slug does not parse back to ref: %q", c.Slug)
	}
	if !slug.Verify(testSecret, ref, hash) {
		t.Fatal("slug hash does not verify")
	}

	got, err := svc.GetBySlug(context.Background(), c.Slug)
	if err != nil {
		t.Fatalf("get by slug err: %v", err)
	}
	if got.ID != c.ID {
		t.Fatal("expected same character back")
	}
}

func TestGetBySlugRejectsTamperedHash(t *testing.T) {
	svc, _, gameID := newTestService()

	c, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		Nickname: "Shadow",
		GameID:   gameID.String(),
	})
	if err != nil {
		t.Fatalf("create err: %v", err)
	}

	tampered := c.Slug[:len(c.Slug)-1] + "x"
	if _, err := svc.GetBySlug(context.Background(), tampered); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound for tampered slug, got %v", err)
	}

	if _, err := svc.GetBySlug(context.Background(), "not-a-slug"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound for malformed slug, got %v", err)
	}
}

func TestCreateDuplicateNicknameSameGame(t *testing.T) {
	svc, _, gameID := newTestService()
	userID := uuid.New()

	if _, err := svc.Create(context.Background(), userID, &CreateRequest{Nickname: "Shadow", GameID: gameID.String()}); err != nil {
		t.Fatalf("first create err: %v", err)
	}

	_, err := svc.Create(context.Background(), userID, &CreateRequest{Nickname: "shadow", GameID: gameID.String()})
	if !errors.Is(err, ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}

	// Same nickname is fine for a different user.
	if _, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{Nickname: "Shadow", GameID: gameID.String()}); err != nil {
		t.Fatalf("other user create err: %v", err)
	}
}

func TestUpdateByNonOwnerFails(t *testing.T) {
	svc, _, gameID := newTestService()

	c, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{Nickname: "Shadow", GameID: gameID.String()})
	if err != nil {
		t.Fatalf("create err: %v", err)
	}

	nick := "Stolen"
	_, err = svc.Update(context.Background(), uuid.New(), c.Slug, &UpdateRequest{Nickname: &nick})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestUpdateNicknameRegeneratesSlug(t *testing.T) {
	svc, _, gameID := newTestService()
	userID := uuid.New()

	c, err := svc.Create(context.Background(), userID, &CreateRequest{Nickname: "Shadow", GameID: gameID.String()})
	if err != nil {
		t.Fatalf("create err: %v", err)
	}
	oldSlug := c.Slug

	nick := "Night Blade"
	updated, err := svc.Update(context.Background(), userID, c.Slug, &UpdateRequest{Nickname: &nick})
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if updated.Slug == oldSlug {
		t.Fatal("expected slug to change with nickname")
	}
	if !strings.HasPrefix(updated.Slug, "night-blade-") {
		t.Fatalf("unexpected slug %q", updated.Slug)
	}

	// ref is stable, so the hash part stays valid
	ref, hash, _ := slug.Parse(updated.Slug)
	if ref != c.Ref || !slug.Verify(testSecret, ref, hash) {
		t.Fatal("expected stable ref and valid hash after rename")
	}
}
