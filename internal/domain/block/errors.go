package block

import "errors"

var (
	ErrSelfBlock = errors.New("cannot block your own character")
)
