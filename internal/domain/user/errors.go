package user

import "errors"

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionCorrupt = errors.New("stored session is unreadable")
)
