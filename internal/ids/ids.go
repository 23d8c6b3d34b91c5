// Package ids generates opaque identifiers for bill items and sessions.
package ids

import "github.com/google/uuid"

// New returns a fresh item identifier.
func New() string {
	return "item_" + uuid.NewString()
}

// NewSession returns a fresh session identifier.
func NewSession() string {
	return uuid.NewString()
}
