package block

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/moderation"
)

type pair struct{ a, b uuid.UUID }

type fakeRepo struct {
	blocks        map[pair]*Block
	reports       []*moderation.Report
	pokesResolved []pair
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{blocks: map[pair]*Block{}}
}

func (f *fakeRepo) CreateWithSideEffects(ctx context.Context, b *Block, report *moderation.Report) error {
	cp := *b
	f.blocks[pair{b.BlockerID, b.BlockedID}] = &cp
	f.pokesResolved = append(f.pokesResolved, pair{b.BlockerID, b.BlockedID})
	if report != nil {
		rp := *report
		f.reports = append(f.reports, &rp)
	}
	return nil
}
func (f *fakeRepo) Get(ctx context.Context, blockerID, blockedID uuid.UUID) (*Block, error) {
	if b, ok := f.blocks[pair{blockerID, blockedID}]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}
func (f *fakeRepo) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	delete(f.blocks, pair{blockerID, blockedID})
	return nil
}
func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Block, error) {
	return nil, nil
}
func (f *fakeRepo) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	_, fwd := f.blocks[pair{a, b}]
	_, rev := f.blocks[pair{b, a}]
	return fwd || rev, nil
}

type fakeResolver struct {
	chars map[uuid.UUID]*character.Character
}

func (f *fakeResolver) bySlug(slug string) *character.Character {
	for _, c := range f.chars {
		if c.Slug == slug {
			return c
		}
	}
	return nil
}
func (f *fakeResolver) GetBySlug(ctx context.Context, slug string) (*character.Character, error) {
	if c := f.bySlug(slug); c != nil {
		return c, nil
	}
	return nil, character.ErrCharacterNotFound
}
func (f *fakeResolver) GetOwned(ctx context.Context, userID uuid.UUID, slug string) (*character.Character, error) {
	c := f.bySlug(slug)
	if c == nil {
		return nil, character.ErrCharacterNotFound
	}
	if c.UserID != userID {
		return nil, character.ErrNotOwner
	}
	return c, nil
}
func (f *fakeResolver) GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	if c, ok := f.chars[id]; ok {
		return c, nil
	}
	return nil, character.ErrCharacterNotFound
}

func newFixture() (*Service, *fakeRepo, uuid.UUID, *character.Character, *character.Character) {
	userA := uuid.New()
	charA := &character.Character{ID: uuid.New(), UserID: userA, Nickname: "Alpha", Slug: "alpha-1-aaaaaaaaaa"}
	charB := &character.Character{ID: uuid.New(), UserID: uuid.New(), Nickname: "Beta", Slug: "beta-2-bbbbbbbbbb"}
	resolver := &fakeResolver{chars: map[uuid.UUID]*character.Character{charA.ID: charA, charB.ID: charB}}
	repo := newFakeRepo()
	return NewService(repo, resolver), repo, userA, charA, charB
}

func TestBlockCreatesAndResolvesPendingPokes(t *testing.T) {
	svc, repo, userA, charA, charB := newFixture()

	b, err := svc.Block(context.Background(), userA, &BlockRequest{
		FromCharacter: charA.Slug,
		Character:     charB.Slug,
		Reason:        "Spam messages",
	})
	if err != nil {
		t.Fatalf("block err: %v", err)
	}
	if b.BlockerID != charA.ID || b.BlockedID != charB.ID {
		t.Fatal("unexpected block direction")
	}
	if b.Reason.String != "Spam messages" {
		t.Fatalf("expected reason stored, got %q", b.Reason.String)
	}
	if len(repo.pokesResolved) != 1 {
		t.Fatal("expected pending pokes between the pair to be resolved")
	}

	blocked, _ := repo.IsBlockedEitherWay(context.Background(), charB.ID, charA.ID)
	if !blocked {
		t.Fatal("expected block visible in both directions")
	}
}

func TestBlockIsIdempotent(t *testing.T) {
	svc, repo, userA, charA, charB := newFixture()

	first, err := svc.Block(context.Background(), userA, &BlockRequest{FromCharacter: charA.Slug, Character: charB.Slug})
	if err != nil {
		t.Fatalf("block err: %v", err)
	}
	second, err := svc.Block(context.Background(), userA, &BlockRequest{FromCharacter: charA.Slug, Character: charB.Slug})
	if err != nil {
		t.Fatalf("second block err: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected the existing block back on repeat")
	}
	if len(repo.pokesResolved) != 1 {
		t.Fatal("expected side effects to run only once")
	}
}

func TestBlockWithReportSpamFilesReport(t *testing.T) {
	svc, repo, userA, charA, charB := newFixture()

	_, err := svc.Block(context.Background(), userA, &BlockRequest{
		FromCharacter: charA.Slug,
		Character:     charB.Slug,
		Reason:        "Spam messages",
		ReportSpam:    true,
	})
	if err != nil {
		t.Fatalf("block err: %v", err)
	}
	if len(repo.reports) != 1 {
		t.Fatalf("expected one spam report, got %d", len(repo.reports))
	}
	rep := repo.reports[0]
	if rep.ReporterID != charA.ID || rep.ReportedID != charB.ID {
		t.Fatal("unexpected report parties")
	}
	if rep.Status != moderation.ReportStatusPending {
		t.Fatalf("expected pending report, got %s", rep.Status)
	}
}

func TestBlockSelfFails(t *testing.T) {
	svc, _, userA, charA, _ := newFixture()

	_, err := svc.Block(context.Background(), userA, &BlockRequest{FromCharacter: charA.Slug, Character: charA.Slug})
	if !errors.Is(err, ErrSelfBlock) {
		t.Fatalf("expected ErrSelfBlock, got %v", err)
	}
}

func TestUnblockIsIdempotent(t *testing.T) {
	svc, repo, userA, charA, charB := newFixture()

	if _, err := svc.Block(context.Background(), userA, &BlockRequest{FromCharacter: charA.Slug, Character: charB.Slug}); err != nil {
		t.Fatalf("block err: %v", err)
	}

	req := &UnblockRequest{FromCharacter: charA.Slug, Character: charB.Slug}
	if err := svc.Unblock(context.Background(), userA, req); err != nil {
		t.Fatalf("unblock err: %v", err)
	}
	if err := svc.Unblock(context.Background(), userA, req); err != nil {
		t.Fatalf("expected repeat unblock to be a no-op, got %v", err)
	}

	blocked, _ := repo.IsBlockedEitherWay(context.Background(), charA.ID, charB.ID)
	if blocked {
		t.Fatal("expected block removed")
	}
}
