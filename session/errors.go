package session

import "errors"

// Sentinel errors for session classification.
var (
	ErrMissingToken = errors.New("session: missing bearer token")
	ErrInvalidToken = errors.New("session: invalid token")
	ErrNoSubject    = errors.New("session: token has no subject claim")
)
