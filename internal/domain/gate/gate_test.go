package gate

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestBlockSuppressesMessagingBothDirections(t *testing.T) {
	// A blocked B: the snapshot is symmetric, so both directions deny.
	forward := Snapshot{BlockedEitherWay: true, MessagingUnlocked: true}
	reverse := Snapshot{BlockedEitherWay: true, MessagingUnlocked: true}

	if forward.CanMessage() || reverse.CanMessage() {
		t.Fatal("expected messaging denied in both directions while blocked")
	}
	if err := forward.CheckMessage(); err != ErrBlocked {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}

	// After unblock the unlock state is still there.
	after := Snapshot{MessagingUnlocked: true}
	if !after.CanMessage() {
		t.Fatal("expected messaging restored after unblock when previously unlocked")
	}
}

func TestSelfFriendRequestAlwaysDenied(t *testing.T) {
	s := Snapshot{SameCharacter: true}
	if s.CanFriendRequest() {
		t.Fatal("expected self friend request denied")
	}
	if err := s.CheckFriendRequest(); err != ErrSelfAction {
		t.Fatalf("expected ErrSelfAction, got %v", err)
	}
	if s.CanPoke() || s.CanMessage() {
		t.Fatal("expected self poke and self message denied")
	}
}

func TestPokeDeniedWhileBlocked(t *testing.T) {
	s := Snapshot{BlockedEitherWay: true}
	if s.CanPoke() {
		t.Fatal("expected poke denied while blocked")
	}
	if err := s.CheckPoke(); err != ErrBlocked {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestUnblockRestoresPokeAndFriendRequestEligibility(t *testing.T) {
	before := Snapshot{}
	blocked := Snapshot{BlockedEitherWay: true}
	after := Snapshot{}

	if !before.CanPoke() || !before.CanFriendRequest() {
		t.Fatal("expected pre-block eligibility")
	}
	if blocked.CanPoke() || blocked.CanFriendRequest() {
		t.Fatal("expected block to suppress poke and friend request")
	}
	if after.CanPoke() != before.CanPoke() || after.CanFriendRequest() != before.CanFriendRequest() {
		t.Fatal("expected unblock to restore exactly the pre-block state")
	}
}

func TestMessagingRequiresUnlock(t *testing.T) {
	locked := Snapshot{}
	if locked.CanMessage() {
		t.Fatal("expected messaging locked without a responded poke exchange")
	}
	if err := locked.CheckMessage(); err != ErrMessagingLocked {
		t.Fatalf("expected ErrMessagingLocked, got %v", err)
	}

	unlocked := Snapshot{MessagingUnlocked: true}
	if !unlocked.CanMessage() {
		t.Fatal("expected messaging allowed once unlocked")
	}
}

func TestFriendRequestDuplicates(t *testing.T) {
	pending := Snapshot{FriendshipPending: true}
	if pending.CanFriendRequest() {
		t.Fatal("expected duplicate request denied while pending")
	}
	if err := pending.CheckFriendRequest(); err != ErrDuplicateRequest {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}

	accepted := Snapshot{FriendshipAccepted: true}
	if accepted.CanFriendRequest() {
		t.Fatal("expected request denied while already friends")
	}

	// A declined friendship leaves no trace in the snapshot.
	declined := Snapshot{}
	if !declined.CanFriendRequest() {
		t.Fatal("expected re-request after decline to be allowed")
	}
}

func TestCanViewProfile(t *testing.T) {
	cases := []struct {
		visibility string
		friends    bool
		self       bool
		want       bool
	}{
		{VisibilityPublic, false, false, true},
		{VisibilityFriends, false, false, false},
		{VisibilityFriends, true, false, true},
		{VisibilityPrivate, false, false, false},
		{VisibilityPrivate, true, false, false},
		{VisibilityPrivate, false, true, true},
		{"", false, false, true}, // unset treated as public
	}
	for _, tc := range cases {
		if got := CanViewProfile(tc.visibility, tc.friends, tc.self); got != tc.want {
			t.Errorf("CanViewProfile(%q, friends=%v, self=%v) = %v, want %v",
				tc.visibility, tc.friends, tc.self, got, tc.want)
		}
	}
}

type fixedBlocks struct{ blocked bool }

func (f fixedBlocks) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.blocked, nil
}

type fixedFriendships struct{ pending, accepted bool }

func (f fixedFriendships) FriendshipState(ctx context.Context, a, b uuid.UUID) (bool, bool, error) {
	return f.pending, f.accepted, nil
}

type fixedPokes struct{ responded bool }

func (f fixedPokes) HasRespondedPoke(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.responded, nil
}

func TestCheckerLoadsSnapshot(t *testing.T) {
	checker := NewChecker(fixedBlocks{blocked: true}, fixedFriendships{pending: true}, fixedPokes{responded: true})

	s, err := checker.Load(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if !s.BlockedEitherWay || !s.FriendshipPending || !s.MessagingUnlocked {
		t.Fatalf("snapshot not populated from readers: %+v", s)
	}
}

func TestCheckerShortCircuitsSelf(t *testing.T) {
	checker := NewChecker(fixedBlocks{}, fixedFriendships{}, fixedPokes{})
	id := uuid.New()

	s, err := checker.Load(context.Background(), id, id)
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if !s.SameCharacter {
		t.Fatal("expected SameCharacter for identical ids")
	}
}
