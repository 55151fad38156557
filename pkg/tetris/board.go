package tetris

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cbodonnell/gametetris/pkg/regulator"
)

const (
	// PreviewSize is the edge length of the square preview grid.
	PreviewSize = 4
	// DefaultClearDelay is the number of steps a blasted row stays visible before removal.
	DefaultClearDelay = 10
	// RefillFillProbability is the chance of each bottom-refill cell being filled.
	RefillFillProbability = 0.5
)

// Default rates, expressed as ticks per steps.
const (
	DefaultFallTicks       = 1
	DefaultFallSteps       = 100
	DefaultDropTicks       = 1
	DefaultDropSteps       = 10
	DefaultLineRemoveTicks = 1
	DefaultLineRemoveSteps = 3
)

// Options configures a new Board.
type Options struct {
	// Name is an optional display name copied into snapshots.
	Name string
	Cols int
	Rows int
	// ClearDelay is the number of steps between a lock and the first row removal.
	ClearDelay int
	// Seed seeds the piece and refill generator. Zero picks a time-based seed.
	Seed uint64
	// Rand overrides the random source entirely when set.
	Rand *rand.Rand
}

// DefaultOptions returns a 10x20 board with the default clear delay.
func DefaultOptions() Options {
	return Options{
		Cols:       10,
		Rows:       20,
		ClearDelay: DefaultClearDelay,
	}
}

// Board is the state machine of a single falling-block board.
// It is not safe for concurrent use.
type Board struct {
	name       string
	cols       int
	rows       int
	gameOver   bool
	field      Grid
	preview    Grid
	current    *Piece
	next       Shape
	actions    []Action
	drop       bool
	fall       *regulator.RateRegulator
	dropSpeed  *regulator.RateRegulator
	lineRemove *regulator.RateRegulator
	clearDelay int
	// remainingDelay is negative when no clear delay is pending
	remainingDelay int
	rng            *rand.Rand
}

// New creates a board with the default rates.
func New(opts Options) (*Board, error) {
	if opts.Cols < 1 || opts.Rows < 1 {
		return nil, fmt.Errorf("invalid board size %dx%d", opts.Cols, opts.Rows)
	}
	if opts.ClearDelay < 0 {
		return nil, fmt.Errorf("invalid clear delay %d", opts.ClearDelay)
	}

	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	b := &Board{
		name:           opts.Name,
		cols:           opts.Cols,
		rows:           opts.Rows,
		field:          NewGrid(opts.Cols, opts.Rows),
		preview:        NewGrid(PreviewSize, PreviewSize),
		fall:           mustRegulator(DefaultFallTicks, DefaultFallSteps),
		dropSpeed:      mustRegulator(DefaultDropTicks, DefaultDropSteps),
		lineRemove:     mustRegulator(DefaultLineRemoveTicks, DefaultLineRemoveSteps),
		clearDelay:     opts.ClearDelay,
		remainingDelay: -1,
		rng:            rng,
	}
	b.next = b.createNextShape()

	return b, nil
}

func mustRegulator(ticks, steps int) *regulator.RateRegulator {
	r, err := regulator.New(ticks, steps)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in rate: %v", err))
	}
	return r
}

// SetFallSpeed sets the normal gravity rate to ticks rows per steps.
func (b *Board) SetFallSpeed(ticks, steps int) error {
	r, err := regulator.New(ticks, steps)
	if err != nil {
		return fmt.Errorf("failed to set fall speed: %w", err)
	}
	b.fall = r
	return nil
}

// SetDropSpeed sets the gravity rate used after a drop action.
func (b *Board) SetDropSpeed(ticks, steps int) error {
	r, err := regulator.New(ticks, steps)
	if err != nil {
		return fmt.Errorf("failed to set drop speed: %w", err)
	}
	b.dropSpeed = r
	return nil
}

// SetLineRemoveSpeed sets how fast blasted rows are removed and the next piece spawned.
func (b *Board) SetLineRemoveSpeed(ticks, steps int) error {
	r, err := regulator.New(ticks, steps)
	if err != nil {
		return fmt.Errorf("failed to set line remove speed: %w", err)
	}
	b.lineRemove = r
	return nil
}

// AddAction enqueues a player action.
func (b *Board) AddAction(action Action) error {
	if !action.IsPlayerAction() {
		return fmt.Errorf("failed to add %s: %w", action, ErrInternalAction)
	}
	b.actions = append(b.actions, action)
	return nil
}

// AddRefill enqueues a bottom refill on behalf of the opponent. It is the
// only way to queue ActionBottomRefill.
func (b *Board) AddRefill() {
	b.actions = append(b.actions, ActionBottomRefill)
}

// Step advances the board by one tick.
func (b *Board) Step() StepResult {
	if b.gameOver {
		return ResultGameOver
	}

	if b.remainingDelay >= 0 {
		if b.remainingDelay > 0 {
			b.remainingDelay--
			return ResultNone
		}
		b.remainingDelay = -1
	}

	for i := b.lineRemove.Step(); i > 0; i-- {
		if b.current != nil {
			continue
		}
		if b.removeTopBlastedLine() {
			return ResultLineRemoved
		}
		if !b.placeNextPiece() {
			b.gameOver = true
			return ResultGameOver
		}
	}

	gravity := b.fall
	if b.drop {
		gravity = b.dropSpeed
	}
	for i := gravity.Step(); i > 0; i-- {
		b.actions = append(b.actions, ActionMoveDown)
	}

	if len(b.actions) == 0 {
		return ResultNone
	}
	action := b.actions[0]
	b.actions = b.actions[1:]

	succeeded := b.apply(action)
	if !succeeded && action == ActionMoveDown && b.current != nil {
		b.lock()
	}
	return ResultAction(action, succeeded)
}

func (b *Board) apply(action Action) bool {
	switch action {
	case ActionMoveLeft:
		return b.changeCurrent(-1, 0, R0)
	case ActionMoveRight:
		return b.changeCurrent(1, 0, R0)
	case ActionMoveDown:
		return b.changeCurrent(0, 1, R0)
	case ActionRotateLeft:
		return b.changeCurrent(0, 0, R270)
	case ActionRotateRight:
		return b.changeCurrent(0, 0, R90)
	case ActionDrop:
		b.drop = true
		return true
	case ActionBottomRefill:
		b.bottomRefill()
		return true
	default:
		return false
	}
}

// lock burns the current piece into the field, blasts full rows and starts the clear delay.
func (b *Board) lock() {
	b.current.Draw(b.field)
	b.current = nil
	b.blastFullLines()
	b.actions = b.actions[:0]
	b.remainingDelay = b.clearDelay
}

// changeCurrent moves and rotates the current piece if the result fits.
func (b *Board) changeCurrent(dx, dy int, dr Rotation) bool {
	if b.current == nil {
		return false
	}
	candidate := b.current.Moved(dx, dy, dr)
	if candidate.Intersects(b.field) {
		return false
	}
	*b.current = candidate
	return true
}

// placeNextPiece spawns the next shape at the top center. It returns false if
// the spawn position is already blocked.
func (b *Board) placeNextPiece() bool {
	piece := Piece{
		Shape:    b.next,
		Rotation: R0,
		X:        b.cols/2 - 2,
		Y:        0,
	}
	if piece.Intersects(b.field) {
		return false
	}
	b.current = &piece
	b.next = b.createNextShape()
	b.drop = false
	return true
}

func (b *Board) createNextShape() Shape {
	shape := Shapes[b.rng.IntN(ShapeCount)]
	b.preview.Clear()
	Piece{Shape: shape}.Draw(b.preview)
	return shape
}

// blastFullLines marks every full row as blasted and reports whether any was found.
func (b *Board) blastFullLines() bool {
	blasted := false
	for y := 0; y < b.rows; y++ {
		if !b.field.rowFull(y) {
			continue
		}
		blasted = true
		for x := range b.field[y] {
			b.field[y][x] = CellBlasted
		}
	}
	return blasted
}

// removeTopBlastedLine shifts out the topmost row whose first cell is blasted.
func (b *Board) removeTopBlastedLine() bool {
	top := -1
	for y := 0; y < b.rows; y++ {
		if b.field[y][0] == CellBlasted {
			top = y
			break
		}
	}
	if top < 0 {
		return false
	}
	for y := top; y > 0; y-- {
		copy(b.field[y], b.field[y-1])
	}
	for x := range b.field[0] {
		b.field[0][x] = CellEmpty
	}
	return true
}

// bottomRefill pushes every row up by one, discarding the top row, and fills
// the bottom row at random. The current piece is not re-validated.
func (b *Board) bottomRefill() {
	for y := 1; y < b.rows; y++ {
		copy(b.field[y-1], b.field[y])
	}
	bottom := b.field[b.rows-1]
	for x := range bottom {
		if b.rng.Float64() < RefillFillProbability {
			bottom[x] = CellI + CellType(b.rng.IntN(ShapeCount))
		} else {
			bottom[x] = CellEmpty
		}
	}
}

// IsGameOver reports whether the board has failed to spawn a piece.
func (b *Board) IsGameOver() bool {
	return b.gameOver
}

func (b *Board) Name() string {
	return b.name
}

func (b *Board) Cols() int {
	return b.cols
}

func (b *Board) Rows() int {
	return b.rows
}

// Current returns a copy of the active piece, if any.
func (b *Board) Current() (Piece, bool) {
	if b.current == nil {
		return Piece{}, false
	}
	return *b.current, true
}

// Next returns the shape that will spawn next.
func (b *Board) Next() Shape {
	return b.next
}

// Dropping reports whether the fast drop rate is active.
func (b *Board) Dropping() bool {
	return b.drop
}

// ClearDelayRemaining returns the remaining clear delay, or -1 when none is pending.
func (b *Board) ClearDelayRemaining() int {
	return b.remainingDelay
}

// PendingActions returns a copy of the action queue, front first.
func (b *Board) PendingActions() []Action {
	return append([]Action(nil), b.actions...)
}

// Field returns a copy of the locked cells, without the active piece.
func (b *Board) Field() Grid {
	return b.field.Clone()
}

// Snapshot returns a detached copy of the board for rendering or transport.
func (b *Board) Snapshot() *Snapshot {
	field := b.field.Clone()
	if b.current != nil {
		b.current.Draw(field)
	}
	return &Snapshot{
		Name:     b.name,
		Cols:     b.cols,
		Rows:     b.rows,
		Field:    field,
		Preview:  b.preview.Clone(),
		GameOver: b.gameOver,
	}
}
