package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()

		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		assert.False(t, seen[id], "ids must not repeat")
		seen[id] = true
	}
}
