package qssa

import "github.com/google/uuid"

// NewRunID returns a random identifier for an ensemble run.
func NewRunID() string {
	return uuid.NewString()
}
