package domain

import "github.com/google/uuid"

// NewID returns a globally unique opaque id for entities and saved proposals.
func NewID() string {
	return uuid.NewString()
}
