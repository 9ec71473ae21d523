package poke

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPokeNotFound    = errors.New("poke not found")
	ErrNotReceiver     = errors.New("poke is addressed to another character")
	ErrAlreadyResolved = errors.New("poke already resolved")
	ErrSelfPoke        = errors.New("cannot poke your own character")
	ErrBlocked         = errors.New("interaction is blocked")
)

// RateLimitError reports an exhausted poke quota together with the
// remaining allowance, so handlers can surface it in the 429 payload.
type RateLimitError struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("poke limit of %d per 24h reached", e.Limit)
}
