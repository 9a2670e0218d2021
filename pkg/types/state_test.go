package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityStateString(t *testing.T) {
	tests := []struct {
		state EntityState
		want  string
	}{
		{StateDetached, "detached"},
		{StateUnchanged, "unchanged"},
		{StateAdded, "added"},
		{StateModified, "modified"},
		{StateDeleted, "deleted"},
		{StateStale, "stale"},
		{EntityState(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestEntityStatePending(t *testing.T) {
	assert.True(t, StateAdded.Pending())
	assert.True(t, StateModified.Pending())
	assert.True(t, StateDeleted.Pending())
	assert.False(t, StateUnchanged.Pending())
	assert.False(t, StateDetached.Pending())
	assert.False(t, StateStale.Pending())
}

func TestEntityStateValid(t *testing.T) {
	assert.True(t, StateStale.Valid())
	assert.False(t, EntityState(-1).Valid())
}
