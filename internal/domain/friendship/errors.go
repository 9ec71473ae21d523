package friendship

import "errors"

var (
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrNotAddressee     = errors.New("request is addressed to another character")
	ErrNotRequester     = errors.New("request was sent by another character")
	ErrAlreadyResolved  = errors.New("request already resolved")
	ErrDuplicateRequest = errors.New("friend request already exists")
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrBlocked          = errors.New("interaction is blocked")
)
