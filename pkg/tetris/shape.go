package tetris

import "fmt"

// Rotation is a clockwise quarter-turn count in the range [0, 3].
type Rotation uint8

const (
	R0 Rotation = iota
	R90
	R180
	R270
)

// Combine adds delta to r modulo a full turn.
func Combine(r, delta Rotation) Rotation {
	return (r + delta) % 4
}

// RotateLeft returns r turned a quarter counter-clockwise.
func (r Rotation) RotateLeft() Rotation {
	return Combine(r, R270)
}

// RotateRight returns r turned a quarter clockwise.
func (r Rotation) RotateRight() Rotation {
	return Combine(r, R90)
}

func (r Rotation) String() string {
	return fmt.Sprintf("R%d", int(r%4)*90)
}

// Shape is one of the seven tetromino kinds.
type Shape uint8

const (
	ShapeI Shape = iota
	ShapeJ
	ShapeL
	ShapeO
	ShapeS
	ShapeT
	ShapeZ
)

// ShapeCount is the number of tetromino kinds.
const ShapeCount = 7

// Shapes lists every tetromino kind in catalogue order.
var Shapes = [ShapeCount]Shape{ShapeI, ShapeJ, ShapeL, ShapeO, ShapeS, ShapeT, ShapeZ}

type pattern struct {
	cells  [4][4]bool
	width  int
	height int
}

// catalogue holds the canonical R0 occupancy of each shape, indexed [row][col].
var catalogue = [ShapeCount]pattern{
	ShapeI: {
		cells: [4][4]bool{
			{true, true, true, true},
		},
		width:  4,
		height: 1,
	},
	ShapeJ: {
		cells: [4][4]bool{
			{true, false, false},
			{true, true, true},
		},
		width:  3,
		height: 2,
	},
	ShapeL: {
		cells: [4][4]bool{
			{false, false, true},
			{true, true, true},
		},
		width:  3,
		height: 2,
	},
	ShapeO: {
		cells: [4][4]bool{
			{true, true},
			{true, true},
		},
		width:  2,
		height: 2,
	},
	ShapeS: {
		cells: [4][4]bool{
			{false, true, true},
			{true, true, false},
		},
		width:  3,
		height: 2,
	},
	ShapeT: {
		cells: [4][4]bool{
			{false, true, false},
			{true, true, true},
		},
		width:  3,
		height: 2,
	},
	ShapeZ: {
		cells: [4][4]bool{
			{true, true, false},
			{false, true, true},
		},
		width:  3,
		height: 2,
	},
}

func (s Shape) pattern() *pattern {
	return &catalogue[s%ShapeCount]
}

// Width returns the bounding box width at rotation r.
func (s Shape) Width(r Rotation) int {
	p := s.pattern()
	switch r % 4 {
	case R90, R270:
		return p.height
	default:
		return p.width
	}
}

// Height returns the bounding box height at rotation r.
func (s Shape) Height(r Rotation) int {
	p := s.pattern()
	switch r % 4 {
	case R90, R270:
		return p.width
	default:
		return p.height
	}
}

// Cell reports whether the cell at (x, y) of the rotated bounding box is occupied.
// Coordinates outside the rotated bounding box are never occupied.
func (s Shape) Cell(x, y int, r Rotation) bool {
	if x < 0 || y < 0 || x >= s.Width(r) || y >= s.Height(r) {
		return false
	}
	p := s.pattern()
	switch r % 4 {
	case R90:
		return p.cells[p.height-x-1][y]
	case R180:
		return p.cells[p.height-y-1][p.width-x-1]
	case R270:
		return p.cells[x][p.width-y-1]
	default:
		return p.cells[y][x]
	}
}

// CellType returns the color used to draw the shape.
func (s Shape) CellType() CellType {
	return CellI + CellType(s%ShapeCount)
}

func (s Shape) String() string {
	return s.CellType().String()
}
