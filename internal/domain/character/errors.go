package character

import "errors"

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrNicknameTaken     = errors.New("nickname already used for this game")
	ErrNotOwner          = errors.New("character belongs to another user")
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidAvatar     = errors.New("invalid avatar image")
)
