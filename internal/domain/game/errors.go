package game

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameSlugTaken = errors.New("game slug already exists")
)
