package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfilePrivate  = errors.New("profile is private")
)
