package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameAlreadyUsed = errors.New("username already taken")
	ErrEmailAlreadyUsed    = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
