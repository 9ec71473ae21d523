package conversation

import "errors"

var (
	ErrThreadNotFound  = errors.New("thread not found")
	ErrNotParticipant  = errors.New("not a thread participant")
	ErrSelfMessage     = errors.New("cannot message own character")
	ErrBlocked         = errors.New("interaction is blocked")
	ErrMessagingLocked = errors.New("messaging is not unlocked")
)
