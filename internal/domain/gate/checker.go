package gate

import (
	"context"

	"github.com/google/uuid"
)

// BlockReader answers whether either character blocks the other.
type BlockReader interface {
	IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// FriendshipReader answers the live friendship state between two
// characters. Declined friendships are reported as absent.
type FriendshipReader interface {
	FriendshipState(ctx context.Context, a, b uuid.UUID) (pending, accepted bool, err error)
}

// PokeReader answers whether a responded poke exchange exists between
// two characters.
type PokeReader interface {
	HasRespondedPoke(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Checker loads interaction snapshots from the relationship stores.
type Checker struct {
	blocks      BlockReader
	friendships FriendshipReader
	pokes       PokeReader
}

// NewChecker creates a checker over the given readers.
func NewChecker(blocks BlockReader, friendships FriendshipReader, pokes PokeReader) *Checker {
	return &Checker{blocks: blocks, friendships: friendships, pokes: pokes}
}

// Load builds the snapshot for actor acting on target.
func (c *Checker) Load(ctx context.Context, actor, target uuid.UUID) (Snapshot, error) {
	s := Snapshot{SameCharacter: actor == target}
	if s.SameCharacter {
		return s, nil
	}

	blocked, err := c.blocks.IsBlockedEitherWay(ctx, actor, target)
	if err != nil {
		return Snapshot{}, err
	}
	s.BlockedEitherWay = blocked

	pending, accepted, err := c.friendships.FriendshipState(ctx, actor, target)
	if err != nil {
		return Snapshot{}, err
	}
	s.FriendshipPending = pending
	s.FriendshipAccepted = accepted

	unlocked, err := c.pokes.HasRespondedPoke(ctx, actor, target)
	if err != nil {
		return Snapshot{}, err
	}
	s.MessagingUnlocked = unlocked

	return s, nil
}
