package session

import "errors"

// Store implementations return ErrNotFound for unknown ids and tokens.
// The manager reports ErrExpired for sessions past their deadline, even if
// the store still holds them.
var (
	ErrNotFound = errors.New("session: not found")
	ErrExpired  = errors.New("session: expired")

	ErrTokenGeneration = errors.New("session: token generation failed")
	ErrSaveSession     = errors.New("session: save failed")
	ErrDeleteSession   = errors.New("session: delete failed")
)
