// Package pair runs two boards against each other. A removed line on one
// board sends a refill row to the other, and the rate-matched stepping
// protocol keeps a fast caller from outrunning a slow one.
package pair

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cbodonnell/gametetris/pkg/tetris"
)

// Side identifies one of the two boards.
type Side uint8

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Options configures a new Pair.
type Options struct {
	NameA      string
	NameB      string
	Cols       int
	Rows       int
	ClearDelay int
	// Seed seeds both boards. Zero picks a time-based seed.
	Seed uint64
}

// PairSnapshot is the state of both boards seen from one side.
type PairSnapshot struct {
	Player   *tetris.Snapshot `json:"player"`
	Opponent *tetris.Snapshot `json:"opponent"`
}

// Pair owns two boards and steps them together.
// It is not safe for concurrent use.
type Pair struct {
	boardA *tetris.Board
	boardB *tetris.Board
	// a tick fires only once both sides have asked for it
	stepA      bool
	stepB      bool
	divergence int
	lastA      tetris.StepResult
	lastB      tetris.StepResult
}

// New creates a pair of identically sized boards with independent piece streams.
func New(opts Options) (*Pair, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	seeds := rand.New(rand.NewPCG(seed, ^seed))

	boardA, err := tetris.New(tetris.Options{
		Name:       opts.NameA,
		Cols:       opts.Cols,
		Rows:       opts.Rows,
		ClearDelay: opts.ClearDelay,
		Seed:       seeds.Uint64() | 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create board A: %w", err)
	}
	boardB, err := tetris.New(tetris.Options{
		Name:       opts.NameB,
		Cols:       opts.Cols,
		Rows:       opts.Rows,
		ClearDelay: opts.ClearDelay,
		Seed:       seeds.Uint64() | 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create board B: %w", err)
	}

	return FromBoards(boardA, boardB), nil
}

// FromBoards pairs two existing boards. The boards should not be stepped
// directly afterwards.
func FromBoards(boardA, boardB *tetris.Board) *Pair {
	return &Pair{
		boardA: boardA,
		boardB: boardB,
		lastA:  tetris.ResultNone,
		lastB:  tetris.ResultNone,
	}
}

func (p *Pair) SetFallSpeed(ticks, steps int) error {
	if err := p.boardA.SetFallSpeed(ticks, steps); err != nil {
		return err
	}
	return p.boardB.SetFallSpeed(ticks, steps)
}

func (p *Pair) SetDropSpeed(ticks, steps int) error {
	if err := p.boardA.SetDropSpeed(ticks, steps); err != nil {
		return err
	}
	return p.boardB.SetDropSpeed(ticks, steps)
}

func (p *Pair) SetLineRemoveSpeed(ticks, steps int) error {
	if err := p.boardA.SetLineRemoveSpeed(ticks, steps); err != nil {
		return err
	}
	return p.boardB.SetLineRemoveSpeed(ticks, steps)
}

// Step advances both boards by one tick. A line removed on one board queues
// a bottom refill on the other, which lands on its next normal step.
func (p *Pair) Step() (tetris.StepResult, tetris.StepResult) {
	p.stepA = false
	p.stepB = false

	resultA := p.boardA.Step()
	resultB := p.boardB.Step()
	if resultA.Kind == tetris.StepLineRemoved {
		p.boardB.AddRefill()
	}
	if resultB.Kind == tetris.StepLineRemoved {
		p.boardA.AddRefill()
	}

	p.lastA, p.lastB = resultA, resultB
	return resultA, resultB
}

// StepPlayer records that side is ready for the next tick. The tick fires
// once both sides are ready. It returns how many calls have gone unmatched
// since the last tick, which is zero when this call fired it.
func (p *Pair) StepPlayer(side Side) int {
	switch side {
	case SideA:
		p.stepA = true
	case SideB:
		p.stepB = true
	}
	if p.stepA && p.stepB {
		p.Step()
		p.divergence = 0
	} else {
		p.divergence++
	}
	return p.divergence
}

// Divergence returns the number of unmatched StepPlayer calls.
func (p *Pair) Divergence() int {
	return p.divergence
}

// LastResults returns the results of the most recent tick.
func (p *Pair) LastResults() (tetris.StepResult, tetris.StepResult) {
	return p.lastA, p.lastB
}

// AddPlayerAction enqueues a player action on side's board.
func (p *Pair) AddPlayerAction(side Side, action tetris.Action) error {
	return p.Board(side).AddAction(action)
}

// IsGameOver reports whether either board is over.
func (p *Pair) IsGameOver() bool {
	return p.boardA.IsGameOver() || p.boardB.IsGameOver()
}

// Winner returns the side still running once the other board is over.
// ok is false while both are running or both are over.
func (p *Pair) Winner() (side Side, ok bool) {
	overA, overB := p.boardA.IsGameOver(), p.boardB.IsGameOver()
	switch {
	case overA && !overB:
		return SideB, true
	case overB && !overA:
		return SideA, true
	default:
		return SideA, false
	}
}

// Board returns the board of side.
func (p *Pair) Board(side Side) *tetris.Board {
	if side == SideB {
		return p.boardB
	}
	return p.boardA
}

// Snapshot returns both boards from side's point of view.
func (p *Pair) Snapshot(side Side) *PairSnapshot {
	return &PairSnapshot{
		Player:   p.Board(side).Snapshot(),
		Opponent: p.Board(side.Opponent()).Snapshot(),
	}
}
