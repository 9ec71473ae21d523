package conversation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
)

type fakeRepo struct {
	threads  []*Thread
	messages []*Message
	owners   map[uuid.UUID]uuid.UUID // characterID -> userID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{owners: map[uuid.UUID]uuid.UUID{}}
}

func (f *fakeRepo) CreateThread(ctx context.Context, t *Thread) error {
	cp := *t
	f.threads = append(f.threads, &cp)
	return nil
}

func (f *fakeRepo) GetThreadByID(ctx context.Context, id uuid.UUID) (*Thread, error) {
	for _, t := range f.threads {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetThreadByCharacters(ctx context.Context, a, b uuid.UUID) (*Thread, error) {
	for _, t := range f.threads {
		if (t.CharacterAID == a && t.CharacterBID == b) || (t.CharacterAID == b && t.CharacterBID == a) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListThreadsByUser(ctx context.Context, userID uuid.UUID) ([]*ThreadView, error) {
	var views []*ThreadView
	for _, t := range f.threads {
		var own uuid.UUID
		switch userID {
		case f.owners[t.CharacterAID]:
			own = t.CharacterAID
		case f.owners[t.CharacterBID]:
			own = t.CharacterBID
		default:
			continue
		}
		unread, _ := f.CountUnreadByThread(ctx, t.ID, own)
		views = append(views, &ThreadView{Thread: *t, UnreadCount: unread})
	}
	return views, nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, msg *Message) error {
	cp := *msg
	f.messages = append(f.messages, &cp)
	for _, t := range f.threads {
		if t.ID == msg.ThreadID {
			t.LastMessageAt.Time = msg.CreatedAt
			t.LastMessageAt.Valid = true
		}
	}
	return nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, threadID uuid.UUID, limit, offset int) ([]*Message, error) {
	var out []*Message
	for _, m := range f.messages {
		if m.ThreadID == threadID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, threadID, readerCharacterID uuid.UUID) error {
	for _, m := range f.messages {
		if m.ThreadID == threadID && m.SenderID != readerCharacterID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) CountUnreadByThread(ctx context.Context, threadID, readerCharacterID uuid.UUID) (int, error) {
	count := 0
	for _, m := range f.messages {
		if m.ThreadID == threadID && m.SenderID != readerCharacterID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, t := range f.threads {
		var own uuid.UUID
		switch userID {
		case f.owners[t.CharacterAID]:
			own = t.CharacterAID
		case f.owners[t.CharacterBID]:
			own = t.CharacterBID
		default:
			continue
		}
		n, _ := f.CountUnreadByThread(ctx, t.ID, own)
		count += n
	}
	return count, nil
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

type fixedUnlock struct{ unlocked bool }

func (f *fixedUnlock) HasRespondedPoke(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.unlocked, nil
}

type recordingNotifier struct {
	kinds []string
	users []uuid.UUID
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, body string) {
	n.kinds = append(n.kinds, kind)
	n.users = append(n.users, userID)
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	notifier *recordingNotifier
	blocks   *fixedBlocks
	unlock   *fixedUnlock
	userA    uuid.UUID
	userB    uuid.UUID
	charA    *character.Character
	charB    *character.Character
}

func newFixture() *fixture {
	userA := uuid.New()
	userB := uuid.New()
	charA := &character.Character{ID: uuid.New(), UserID: userA, Nickname: "Shadow", Slug: "shadow-1-aaaa"}
	charB := &character.Character{ID: uuid.New(), UserID: userB, Nickname: "Viper", Slug: "viper-2-bbbb"}

	repo := newFakeRepo()
	repo.owners[charA.ID] = userA
	repo.owners[charB.ID] = userB

	resolver := &fakeResolver{chars: map[uuid.UUID]*character.Character{
		charA.ID: charA,
		charB.ID: charB,
	}}

	blocks := &fixedBlocks{}
	unlock := &fixedUnlock{unlocked: true}
	checker := gate.NewChecker(blocks, noFriendships{}, unlock)
	notifier := &recordingNotifier{}

	svc := NewService(repo, resolver, checker, nil, notifier)
	return &fixture{
		svc:      svc,
		repo:     repo,
		notifier: notifier,
		blocks:   blocks,
		unlock:   unlock,
		userA:    userA,
		userB:    userB,
		charA:    charA,
		charB:    charB,
	}
}

func TestSendCreatesThreadLazily(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, f.userA, &SendMessageRequest{
		FromCharacter: f.charA.Slug,
		ToCharacter:   f.charB.Slug,
		Content:       "hey, nice nickname",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(f.repo.threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(f.repo.threads))
	}
	thread := f.repo.threads[0]
	if !thread.HasParticipant(f.charA.ID) || !thread.HasParticipant(f.charB.ID) {
		t.Error("thread participants do not match the pair")
	}
	if msg.SenderID != f.charA.ID || msg.Content != "hey, nice nickname" {
		t.Errorf("unexpected message: %+v", msg)
	}

	// Reply reuses the same thread.
	reply, err := f.svc.Send(ctx, f.userB, &SendMessageRequest{
		FromCharacter: f.charB.Slug,
		ToCharacter:   f.charA.Slug,
		Content:       "thanks",
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if len(f.repo.threads) != 1 {
		t.Fatalf("expected thread reuse, got %d threads", len(f.repo.threads))
	}
	if reply.ThreadID != msg.ThreadID {
		t.Error("reply landed in a different thread")
	}

	if len(f.notifier.kinds) != 2 || f.notifier.kinds[0] != "new_message" {
		t.Errorf("unexpected notifications: %v", f.notifier.kinds)
	}
	if f.notifier.users[0] != f.userB {
		t.Error("first notification should go to the recipient's owner")
	}
}

func TestSendRequiresUnlock(t *testing.T) {
	f := newFixture()
	f.unlock.unlocked = false

	_, err := f.svc.Send(context.Background(), f.userA, &SendMessageRequest{
		FromCharacter: f.charA.Slug,
		ToCharacter:   f.charB.Slug,
		Content:       "hello?",
	})
	if !errors.Is(err, ErrMessagingLocked) {
		t.Fatalf("expected ErrMessagingLocked, got %v", err)
	}
	if len(f.repo.threads) != 0 {
		t.Error("locked send must not create a thread")
	}
}

func TestSendBlockedDespiteUnlock(t *testing.T) {
	f := newFixture()
	f.blocks.blocked = true

	_, err := f.svc.Send(context.Background(), f.userA, &SendMessageRequest{
		FromCharacter: f.charA.Slug,
		ToCharacter:   f.charB.Slug,
		Content:       "hello?",
	})
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestSendToOwnCharacter(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Send(context.Background(), f.userA, &SendMessageRequest{
		FromCharacter: f.charA.Slug,
		ToCharacter:   f.charA.Slug,
		Content:       "me again",
	})
	if !errors.Is(err, ErrSelfMessage) {
		t.Fatalf("expected ErrSelfMessage, got %v", err)
	}
}

func TestBlockDoesNotBypassOnExistingThread(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Send(ctx, f.userA, &SendMessageRequest{
		FromCharacter: f.charA.Slug,
		ToCharacter:   f.charB.Slug,
		Content:       "first",
	}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	f.blocks.blocked = true
	_, err := f.svc.Send(ctx, f.userA, &SendMessageRequest{
		FromCharacter: f.charA.Slug,
		ToCharacter:   f.charB.Slug,
		Content:       "second",
	})
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked on existing thread, got %v", err)
	}
	if len(f.repo.messages) != 1 {
		t.Error("blocked send must not store a message")
	}
}

func TestUnreadCountsAndMarkRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, content := range []string{"one", "two"} {
		if _, err := f.svc.Send(ctx, f.userA, &SendMessageRequest{
			FromCharacter: f.charA.Slug,
			ToCharacter:   f.charB.Slug,
			Content:       content,
		}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	threadID := f.repo.threads[0].ID

	if count, _ := f.svc.UnreadCount(ctx, f.userB); count != 2 {
		t.Errorf("recipient unread = %d, want 2", count)
	}
	if count, _ := f.svc.UnreadCount(ctx, f.userA); count != 0 {
		t.Errorf("sender unread = %d, want 0", count)
	}

	stranger := uuid.New()
	if err := f.svc.MarkRead(ctx, stranger, threadID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant for stranger, got %v", err)
	}
	if count, _ := f.svc.UnreadCount(ctx, f.userB); count != 2 {
		t.Error("stranger mark-read must not change unread count")
	}

	if err := f.svc.MarkRead(ctx, f.userB, threadID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if count, _ := f.svc.UnreadCount(ctx, f.userB); count != 0 {
		t.Errorf("unread after mark-read = %d, want 0", count)
	}
}

func TestMessagesOrderedBySentTime(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		if _, err := f.svc.Send(ctx, f.userA, &SendMessageRequest{
			FromCharacter: f.charA.Slug,
			ToCharacter:   f.charB.Slug,
			Content:       c,
		}); err != nil {
			t.Fatalf("Send: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	msgs, err := f.svc.GetMessages(ctx, f.userB, f.repo.threads[0].ID, 50, 0)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != len(contents) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(contents))
	}
	for i, m := range msgs {
		if m.Content != contents[i] {
			t.Errorf("message %d = %q, want %q", i, m.Content, contents[i])
		}
	}

	if _, err := f.svc.GetMessages(ctx, uuid.New(), f.repo.threads[0].ID, 50, 0); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant for outsider, got %v", err)
	}
}
