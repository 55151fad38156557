package pair

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/cbodonnell/gametetris/pkg/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource makes every IntN(7) return 0 (ShapeI) and every Float64 fall
// below the refill probability.
type constSource struct{}

func (constSource) Uint64() uint64 { return 1 << 32 }

func newTestPair(t *testing.T) *Pair {
	t.Helper()
	p, err := New(Options{
		NameA:      "left",
		NameB:      "right",
		Cols:       10,
		Rows:       20,
		ClearDelay: tetris.DefaultClearDelay,
		Seed:       11,
	})
	require.NoError(t, err)
	require.NoError(t, p.SetFallSpeed(0, 1))
	require.NoError(t, p.SetDropSpeed(0, 1))
	require.NoError(t, p.SetLineRemoveSpeed(1, 1))
	return p
}

// newNarrowPair returns a pair of 4x4 boards that only ever spawn I pieces,
// so a single dropped piece completes the bottom row.
func newNarrowPair(t *testing.T) *Pair {
	t.Helper()
	boards := make([]*tetris.Board, 2)
	for i := range boards {
		b, err := tetris.New(tetris.Options{Cols: 4, Rows: 4, Rand: rand.New(constSource{})})
		require.NoError(t, err)
		boards[i] = b
	}
	p := FromBoards(boards[0], boards[1])
	require.NoError(t, p.SetFallSpeed(0, 1))
	require.NoError(t, p.SetDropSpeed(1, 1))
	require.NoError(t, p.SetLineRemoveSpeed(1, 1))
	return p
}

// stepUntilLineRemovedOnA drops pieces on A until a tick reports a removed line.
func stepUntilLineRemovedOnA(t *testing.T, p *Pair) (tetris.StepResult, tetris.StepResult) {
	t.Helper()
	for i := 0; i < 50; i++ {
		if _, ok := p.Board(SideA).Current(); ok && !p.Board(SideA).Dropping() {
			require.NoError(t, p.AddPlayerAction(SideA, tetris.ActionDrop))
		}
		resultA, resultB := p.Step()
		if resultA.Kind == tetris.StepLineRemoved {
			return resultA, resultB
		}
	}
	t.Fatal("no line removed on A")
	return tetris.ResultNone, tetris.ResultNone
}

func TestNew_invalidSize(t *testing.T) {
	_, err := New(Options{Cols: 0, Rows: 20})
	assert.Error(t, err)
}

func TestPair_setSpeedRejectsZeroSteps(t *testing.T) {
	p := newTestPair(t)
	assert.Error(t, p.SetFallSpeed(1, 0))
	assert.Error(t, p.SetDropSpeed(1, 0))
	assert.Error(t, p.SetLineRemoveSpeed(1, 0))
}

func TestPair_lineRemovedQueuesRefillOnOpponent(t *testing.T) {
	p := newNarrowPair(t)

	resultA, resultB := stepUntilLineRemovedOnA(t, p)
	assert.Equal(t, tetris.ResultLineRemoved, resultA)
	assert.NotEqual(t, tetris.ResultLineRemoved, resultB)

	assert.Equal(t, []tetris.Action{tetris.ActionBottomRefill}, p.Board(SideB).PendingActions())
	assert.Empty(t, p.Board(SideA).PendingActions())

	lastA, lastB := p.LastResults()
	assert.Equal(t, resultA, lastA)
	assert.Equal(t, resultB, lastB)
}

func TestPair_refillShiftsOpponentGrid(t *testing.T) {
	p := newNarrowPair(t)
	stepUntilLineRemovedOnA(t, p)

	_, resultB := p.Step()
	assert.Equal(t, tetris.ResultAction(tetris.ActionBottomRefill, true), resultB)

	field := p.Board(SideB).Field()
	for y := 0; y < 3; y++ {
		assert.Equal(t, []tetris.CellType{tetris.CellEmpty, tetris.CellEmpty, tetris.CellEmpty, tetris.CellEmpty}, []tetris.CellType(field[y]), "row %d", y)
	}
	for x, c := range field[3] {
		assert.True(t, c.IsColor(), "bottom cell %d", x)
	}
	// the refill does not bounce back
	assert.Empty(t, p.Board(SideA).PendingActions())
}

func TestPair_StepPlayer_divergence(t *testing.T) {
	p := newTestPair(t)

	assert.Equal(t, 1, p.StepPlayer(SideA))
	assert.Equal(t, 2, p.StepPlayer(SideA))
	assert.Equal(t, 3, p.StepPlayer(SideA))
	assert.Equal(t, 0, p.StepPlayer(SideB), "tick fires once both sides are ready")

	// flags were cleared together: B alone does not fire again
	assert.Equal(t, 1, p.StepPlayer(SideB))
	assert.Equal(t, 0, p.StepPlayer(SideA))
	assert.Equal(t, 0, p.Divergence())
}

func TestPair_StepPlayer_firesOneTick(t *testing.T) {
	p := newTestPair(t)
	require.NoError(t, p.AddPlayerAction(SideA, tetris.ActionMoveLeft))
	require.NoError(t, p.AddPlayerAction(SideA, tetris.ActionMoveLeft))

	for i := 0; i < 5; i++ {
		p.StepPlayer(SideA)
	}
	_, ok := p.Board(SideA).Current()
	assert.False(t, ok, "no tick before B is ready")

	assert.Equal(t, 0, p.StepPlayer(SideB))
	// exactly one tick ran, so only one of the queued moves was applied
	assert.Len(t, p.Board(SideA).PendingActions(), 1)
	_, okA := p.Board(SideA).Current()
	_, okB := p.Board(SideB).Current()
	assert.True(t, okA)
	assert.True(t, okB)
}

func TestPair_AddPlayerAction(t *testing.T) {
	p := newTestPair(t)
	require.NoError(t, p.AddPlayerAction(SideB, tetris.ActionRotateRight))
	assert.Equal(t, []tetris.Action{tetris.ActionRotateRight}, p.Board(SideB).PendingActions())
	assert.Empty(t, p.Board(SideA).PendingActions())

	assert.ErrorIs(t, p.AddPlayerAction(SideA, tetris.ActionBottomRefill), tetris.ErrInternalAction)
}

func TestPair_gameOverAndWinner(t *testing.T) {
	p, err := New(Options{Cols: 4, Rows: 4, Seed: 5})
	require.NoError(t, err)
	require.NoError(t, p.SetFallSpeed(0, 1))
	require.NoError(t, p.SetDropSpeed(1, 1))
	require.NoError(t, p.SetLineRemoveSpeed(1, 1))

	_, ok := p.Winner()
	assert.False(t, ok)

	// only A plays; B's first piece hangs at the top forever
	for i := 0; i < 1000 && !p.IsGameOver(); i++ {
		if _, ok := p.Board(SideA).Current(); ok && !p.Board(SideA).Dropping() {
			require.NoError(t, p.AddPlayerAction(SideA, tetris.ActionDrop))
		}
		p.Step()
	}
	require.True(t, p.IsGameOver())
	assert.True(t, p.Board(SideA).IsGameOver())
	assert.False(t, p.Board(SideB).IsGameOver())

	winner, ok := p.Winner()
	assert.True(t, ok)
	assert.Equal(t, SideB, winner)
}

func TestPair_Snapshot(t *testing.T) {
	p := newTestPair(t)
	p.Step()

	snapA := p.Snapshot(SideA)
	snapB := p.Snapshot(SideB)
	assert.Equal(t, "left", snapA.Player.Name)
	assert.Equal(t, "right", snapA.Opponent.Name)
	assert.Equal(t, "right", snapB.Player.Name)
	assert.True(t, snapA.Player.Equal(snapB.Opponent))

	data, err := json.Marshal(snapA)
	require.NoError(t, err)
	got := &PairSnapshot{}
	require.NoError(t, json.Unmarshal(data, got))
	assert.True(t, snapA.Player.Equal(got.Player))
	assert.True(t, snapA.Opponent.Equal(got.Opponent))
}

func TestSide(t *testing.T) {
	assert.Equal(t, SideB, SideA.Opponent())
	assert.Equal(t, SideA, SideB.Opponent())
	assert.Equal(t, "A", SideA.String())
}
