package db

import "errors"

// Domain-level database error sentinels.
var (
	// ErrStateNotFound is returned when no state is stored under a key.
	ErrStateNotFound = errors.New("state not found")
)
