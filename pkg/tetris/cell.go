package tetris

import "fmt"

// CellType is the content of a single grid cell.
type CellType uint8

const (
	CellEmpty CellType = iota
	// CellBlasted marks a cell in a full row waiting to be removed
	CellBlasted
	CellI
	CellJ
	CellL
	CellO
	CellS
	CellT
	CellZ
)

func (c CellType) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellBlasted:
		return "blasted"
	case CellI:
		return "I"
	case CellJ:
		return "J"
	case CellL:
		return "L"
	case CellO:
		return "O"
	case CellS:
		return "S"
	case CellT:
		return "T"
	case CellZ:
		return "Z"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// IsColor reports whether the cell holds a piece color.
func (c CellType) IsColor() bool {
	return c >= CellI && c <= CellZ
}

// Grid is a row-major field of cells with the origin at the top left.
type Grid [][]CellType

// NewGrid creates an empty grid of the given size.
func NewGrid(cols, rows int) Grid {
	g := make(Grid, rows)
	for y := range g {
		g[y] = make([]CellType, cols)
	}
	return g
}

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for y, row := range g {
		c[y] = append([]CellType(nil), row...)
	}
	return c
}

// Clear sets every cell to CellEmpty.
func (g Grid) Clear() {
	for _, row := range g {
		for x := range row {
			row[x] = CellEmpty
		}
	}
}

// Equal reports whether both grids have the same size and contents.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(other[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// rowFull reports whether no cell of row y is empty.
func (g Grid) rowFull(y int) bool {
	for _, c := range g[y] {
		if c == CellEmpty {
			return false
		}
	}
	return true
}
