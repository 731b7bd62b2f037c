package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: not found")

	// ErrConflict is returned when a conditional status transition finds
	// the row no longer in the required state.
	ErrConflict = errors.New("store: status conflict")
)
