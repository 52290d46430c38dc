package store

import "github.com/google/uuid"

// NewID returns a new folder or memo ID.
func NewID() string {
	return uuid.NewString()
}
