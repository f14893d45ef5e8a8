package session

import "errors"

var (
	// ErrConnect indicates that the feed transport could not be opened.
	ErrConnect = errors.New("connection failed")
	// ErrSign indicates that the session result could not be signed.
	ErrSign = errors.New("signing failed")
	// ErrInvalidConfig indicates a listener configuration missing a required collaborator.
	ErrInvalidConfig = errors.New("invalid session config")
)
