package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	_, err := m.Get(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, m.Set(ctx, nil))
	assert.Error(t, m.Set(ctx, &MatchState{}))

	require.NoError(t, m.Set(ctx, &MatchState{MatchID: "m2", Tick: 1}))
	require.NoError(t, m.Set(ctx, &MatchState{MatchID: "m1", Tick: 4}))

	got, err := m.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), got.Tick)

	// callers get copies
	got.Tick = 100
	again, err := m.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), again.Tick)

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "m1", all[0].MatchID)
	assert.Equal(t, "m2", all[1].MatchID)

	require.NoError(t, m.Delete(ctx, "m1"))
	_, err = m.Get(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)
}
