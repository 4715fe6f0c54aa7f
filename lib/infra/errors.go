package infra

import "errors"

// Shared error taxonomy of the containers. Package level errors wrap one
// of these with %w, so callers match them by errors.Is.
var (
	ErrEmptyContainer  = errors.New("operation requires at least one element")
	ErrKeyNotFound     = errors.New("key not found")
	ErrDuplicateKey    = errors.New("duplicate key rejected")
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrCapacity is fatal, the container can't grow any further.
	ErrCapacity = errors.New("capacity exhausted")
)
