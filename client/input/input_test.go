package input

import (
	"testing"

	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/tetris"
	"github.com/stretchr/testify/assert"
)

func TestHotSeatKeys(t *testing.T) {
	keys := HotSeatKeys()
	tests := []struct {
		key  string
		want Binding
	}{
		{"left", Binding{pair.SideA, tetris.ActionMoveLeft}},
		{"up", Binding{pair.SideA, tetris.ActionRotateLeft}},
		{" ", Binding{pair.SideA, tetris.ActionDrop}},
		{"a", Binding{pair.SideB, tetris.ActionMoveLeft}},
		{"w", Binding{pair.SideB, tetris.ActionRotateLeft}},
		{"q", Binding{pair.SideB, tetris.ActionDrop}},
	}
	for _, tt := range tests {
		got, ok := keys.Lookup(tt.key)
		assert.True(t, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
	_, ok := keys.Lookup("x")
	assert.False(t, ok)
}

func TestSinglePlayerKeys(t *testing.T) {
	keys := SinglePlayerKeys()
	for key, b := range keys {
		assert.Equal(t, pair.SideA, b.Side, key)
		assert.True(t, b.Action.IsPlayerAction(), key)
	}
	b, ok := keys.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, tetris.ActionRotateRight, b.Action)
}

func TestIsQuit(t *testing.T) {
	assert.True(t, IsQuit("ctrl+c"))
	assert.True(t, IsQuit("esc"))
	assert.False(t, IsQuit("q"))
}
