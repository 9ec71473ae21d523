package poke

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
)

type fakeRepo struct {
	items map[uuid.UUID]*Poke
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*Poke{}}
}

func (f *fakeRepo) Create(ctx context.Context, p *Poke) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Poke, error) {
	if p, ok := f.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
func (f *fakeRepo) Respond(ctx context.Context, id uuid.UUID, reply *Poke) (bool, error) {
	p, ok := f.items[id]
	if !ok || p.Status != StatusPending {
		return false, nil
	}
	p.Status = StatusResponded
	p.UpdatedAt = time.Now()
	cp := *reply
	f.items[reply.ID] = &cp
	return true, nil
}
func (f *fakeRepo) ResolveIfPending(ctx context.Context, id uuid.UUID, status Status) (bool, error) {
	p, ok := f.items[id]
	if !ok || p.Status != StatusPending {
		return false, nil
	}
	p.Status = status
	return true, nil
}
func (f *fakeRepo) ListSent(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error) {
	return nil, nil
}
func (f *fakeRepo) ListReceived(ctx context.Context, userID uuid.UUID, status Status) ([]*Poke, error) {
	return nil, nil
}
func (f *fakeRepo) HasRespondedPoke(ctx context.Context, a, b uuid.UUID) (bool, error) {
	for _, p := range f.items {
		if p.Status != StatusResponded {
			continue
		}
		if (p.SenderID == a && p.ReceiverID == b) || (p.SenderID == b && p.ReceiverID == a) {
			return true, nil
		}
	}
	return false, nil
}

// resolvePendingBetween mimics the block side effect on pokes.
func (f *fakeRepo) resolvePendingBetween(a, b uuid.UUID) {
	for _, p := range f.items {
		if p.Status != StatusPending {
			continue
		}
		if (p.SenderID == a && p.ReceiverID == b) || (p.SenderID == b && p.ReceiverID == a) {
			p.Status = StatusIgnored
		}
	}
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

type fixedBlocks struct{ blocked bool }

func (f *fixedBlocks) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.blocked, nil
}

type noFriendships struct{}

func (noFriendships) FriendshipState(ctx context.Context, a, b uuid.UUID) (bool, bool, error) {
	return false, false, nil
}

type fakeLimiter struct {
	limit int
	used  int
}

func (l *fakeLimiter) Allow(ctx context.Context, senderID uuid.UUID) (bool, int, time.Time, error) {
	l.used++
	if l.used > l.limit {
		return false, 0, time.Now().Add(time.Hour), nil
	}
	return true, l.limit - l.used, time.Now().Add(time.Hour), nil
}
func (l *fakeLimiter) Limit() int { return l.limit }

type recordingNotifier struct {
	kinds []string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, body string) {
	n.kinds = append(n.kinds, kind)
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	blocks   *fixedBlocks
	limiter  *fakeLimiter
	notifier *recordingNotifier
	userA    uuid.UUID
	userB    uuid.UUID
	charA    *character.Character
	charB    *character.Character
}

func newFixture() *fixture {
	userA, userB := uuid.New(), uuid.New()
	charA := &character.Character{ID: uuid.New(), UserID: userA, Nickname: "Alpha", Slug: "alpha-1-aaaaaaaaaa"}
	charB := &character.Character{ID: uuid.New(), UserID: userB, Nickname: "Beta", Slug: "beta-2-bbbbbbbbbb"}
	resolver := &fakeResolver{chars: map[uuid.UUID]*character.Character{charA.ID: charA, charB.ID: charB}}

	repo := newFakeRepo()
	blocks := &fixedBlocks{}
	limiter := &fakeLimiter{limit: 3}
	notifier := &recordingNotifier{}
	checker := gate.NewChecker(blocks, noFriendships{}, repo)

	return &fixture{
		svc:      NewService(repo, resolver, checker, limiter, notifier),
		repo:     repo,
		blocks:   blocks,
		limiter:  limiter,
		notifier: notifier,
		userA:    userA,
		userB:    userB,
		charA:    charA,
		charB:    charB,
	}
}

func TestSendCreatesPendingPoke(t *testing.T) {
	fx := newFixture()

	p, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "Hello, remember me?",
	})
	if err != nil {
		t.Fatalf("send err: %v", err)
	}
	if p.Status != StatusPending {
		t.Fatalf("expected pending, got %s", p.Status)
	}
	if p.SenderID != fx.charA.ID {
		t.Fatal("unexpected sender")
	}
	if p.Content != "Hello, remember me?" {
		t.Fatalf("content changed: %q", p.Content)
	}
	if len(fx.notifier.kinds) != 1 || fx.notifier.kinds[0] != "poke_received" {
		t.Fatalf("expected poke_received notification, got %v", fx.notifier.kinds)
	}
}

func TestSendBlockedCreatesNoRecord(t *testing.T) {
	fx := newFixture()
	fx.blocks.blocked = true

	_, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "hi",
	})
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if len(fx.repo.items) != 0 {
		t.Fatal("expected no poke record created")
	}
	if fx.limiter.used != 0 {
		t.Fatal("expected quota untouched for blocked send")
	}
}

func TestSendToSelfFails(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charA.Slug,
		Content:       "hi me",
	})
	if !errors.Is(err, ErrSelfPoke) {
		t.Fatalf("expected ErrSelfPoke, got %v", err)
	}
}

func TestSendRateLimited(t *testing.T) {
	fx := newFixture()

	req := &SendRequest{FromCharacter: fx.charA.Slug, ToCharacter: fx.charB.Slug, Content: "hi"}
	for i := 0; i < fx.limiter.limit; i++ {
		if _, err := fx.svc.Send(context.Background(), fx.userA, req); err != nil {
			t.Fatalf("send %d err: %v", i, err)
		}
	}

	_, err := fx.svc.Send(context.Background(), fx.userA, req)
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateErr.Limit != fx.limiter.limit {
		t.Fatalf("expected limit %d in error, got %d", fx.limiter.limit, rateErr.Limit)
	}
	if rateErr.Remaining != 0 {
		t.Fatalf("expected zero remaining at denial, got %d", rateErr.Remaining)
	}
	if rateErr.ResetAt.IsZero() {
		t.Fatal("expected reset time in error")
	}
}

func TestRespondCreatesLinkedReplyAndUnlocksMessaging(t *testing.T) {
	fx := newFixture()

	p, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "hello",
	})
	if err != nil {
		t.Fatalf("send err: %v", err)
	}

	reply, err := fx.svc.Respond(context.Background(), fx.userB, p.ID, &RespondRequest{Content: "hello back"})
	if err != nil {
		t.Fatalf("respond err: %v", err)
	}
	if reply.Status != StatusResponded {
		t.Fatalf("expected responded reply, got %s", reply.Status)
	}
	if !reply.ReplyToID.Valid || reply.ReplyToID.UUID != p.ID {
		t.Fatal("expected reply linked to original poke")
	}

	original, _ := fx.repo.GetByID(context.Background(), p.ID)
	if original.Status != StatusResponded {
		t.Fatalf("expected original responded, got %s", original.Status)
	}

	unlocked, _ := fx.repo.HasRespondedPoke(context.Background(), fx.charA.ID, fx.charB.ID)
	if !unlocked {
		t.Fatal("expected messaging unlock after exchange")
	}
}

func TestRespondByNonReceiverFails(t *testing.T) {
	fx := newFixture()

	p, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "hello",
	})
	if err != nil {
		t.Fatalf("send err: %v", err)
	}

	if _, err := fx.svc.Respond(context.Background(), fx.userA, p.ID, &RespondRequest{Content: "nope"}); !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("expected ErrNotReceiver, got %v", err)
	}
}

func TestIgnoreIsTerminal(t *testing.T) {
	fx := newFixture()

	p, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "hello",
	})
	if err != nil {
		t.Fatalf("send err: %v", err)
	}

	if err := fx.svc.Ignore(context.Background(), fx.userB, p.ID); err != nil {
		t.Fatalf("ignore err: %v", err)
	}
	if err := fx.svc.Ignore(context.Background(), fx.userB, p.ID); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	if _, err := fx.svc.Respond(context.Background(), fx.userB, p.ID, &RespondRequest{Content: "late"}); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved on respond after ignore, got %v", err)
	}
}

func TestBlockThenUnblockRestoresPokeNotMessaging(t *testing.T) {
	fx := newFixture()

	p, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "hello",
	})
	if err != nil {
		t.Fatalf("send err: %v", err)
	}

	// B blocks A: pending pokes resolve to ignored, sends are denied.
	fx.blocks.blocked = true
	fx.repo.resolvePendingBetween(fx.charA.ID, fx.charB.ID)

	if _, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "are you there?",
	}); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked while blocked, got %v", err)
	}

	// Unblock: poking works again, but messaging stays locked and the
	// old poke stays resolved.
	fx.blocks.blocked = false

	if _, err := fx.svc.Send(context.Background(), fx.userA, &SendRequest{
		FromCharacter: fx.charA.Slug,
		ToCharacter:   fx.charB.Slug,
		Content:       "fresh start",
	}); err != nil {
		t.Fatalf("expected poke allowed after unblock, got %v", err)
	}

	old, _ := fx.repo.GetByID(context.Background(), p.ID)
	if old.Status != StatusIgnored {
		t.Fatalf("expected block-resolved poke to stay ignored, got %s", old.Status)
	}

	unlocked, _ := fx.repo.HasRespondedPoke(context.Background(), fx.charA.ID, fx.charB.ID)
	if unlocked {
		t.Fatal("expected messaging still locked without a responded exchange")
	}
}
