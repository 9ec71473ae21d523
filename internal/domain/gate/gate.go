// Package gate decides whether one character may act on another.
// Predicates are pure functions over a Snapshot; services load a
// Snapshot through the Checker and re-check it inside the mutation
// transaction so check-then-act stays atomic at the action boundary.
package gate

import "errors"

var (
	ErrBlocked          = errors.New("interaction is blocked")
	ErrMessagingLocked  = errors.New("messaging is locked until a poke exchange")
	ErrSelfAction       = errors.New("cannot target your own character")
	ErrDuplicateRequest = errors.New("friend request already exists")
)

// Visibility levels for profile viewing.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// Snapshot is the relationship state between an actor character and a
// target character at one point in time.
type Snapshot struct {
	SameCharacter      bool
	BlockedEitherWay   bool
	FriendshipPending  bool
	FriendshipAccepted bool
	// MessagingUnlocked is true once a responded poke exchange exists
	// between the pair. A later block suppresses messaging but does not
	// revoke the unlock itself.
	MessagingUnlocked bool
}

// CanMessage reports whether the actor may send a message.
func (s Snapshot) CanMessage() bool {
	return s.CheckMessage() == nil
}

// CheckMessage returns the reason messaging is denied, or nil.
func (s Snapshot) CheckMessage() error {
	if s.SameCharacter {
		return ErrSelfAction
	}
	if s.BlockedEitherWay {
		return ErrBlocked
	}
	if !s.MessagingUnlocked {
		return ErrMessagingLocked
	}
	return nil
}

// CanPoke reports whether the actor may send a poke.
func (s Snapshot) CanPoke() bool {
	return s.CheckPoke() == nil
}

// CheckPoke returns the reason poking is denied, or nil.
func (s Snapshot) CheckPoke() error {
	if s.SameCharacter {
		return ErrSelfAction
	}
	if s.BlockedEitherWay {
		return ErrBlocked
	}
	return nil
}

// CanFriendRequest reports whether the actor may send a friend request.
func (s Snapshot) CanFriendRequest() bool {
	return s.CheckFriendRequest() == nil
}

// CheckFriendRequest returns the reason a friend request is denied, or
// nil. A declined friendship does not show up in the snapshot, so
// re-requesting after a decline is allowed.
func (s Snapshot) CheckFriendRequest() error {
	if s.SameCharacter {
		return ErrSelfAction
	}
	if s.BlockedEitherWay {
		return ErrBlocked
	}
	if s.FriendshipPending || s.FriendshipAccepted {
		return ErrDuplicateRequest
	}
	return nil
}

// CanViewProfile decides profile visibility. Owners always see their
// own profile.
func CanViewProfile(visibility string, areFriends, isSelf bool) bool {
	if isSelf {
		return true
	}
	switch visibility {
	case VisibilityFriends:
		return areFriends
	case VisibilityPrivate:
		return false
	default:
		return true
	}
}
