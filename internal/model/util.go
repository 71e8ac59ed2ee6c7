package model

import "github.com/google/uuid"

// newID generates an opaque identifier for a new row
func newID() string {
	return uuid.NewString()
}
