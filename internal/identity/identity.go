// Package identity allocates globally-unique identifiers for new entities.
package identity

import "github.com/google/uuid"

// NewID returns a freshly generated universally-unique identifier rendered as
// text (a random 128-bit UUID). It never fails and keeps no state.
func NewID() string {
	return uuid.NewString()
}
