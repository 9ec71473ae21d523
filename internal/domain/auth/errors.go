package auth

import "errors"

var (
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrInvalidRefreshToken   = errors.New("invalid or expired refresh token")
	ErrUserNotFound          = errors.New("user not found")
	ErrRefreshTokenRequired  = errors.New("refresh token is required")
	ErrUserBanned            = errors.New("user is banned")
	ErrPasswordIncorrect     = errors.New("current password is incorrect")
	ErrInvalidResetToken     = errors.New("invalid or expired reset token")
)
