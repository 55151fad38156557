package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		r, delta, want Rotation
	}{
		{R0, R0, R0},
		{R0, R90, R90},
		{R90, R270, R0},
		{R270, R90, R0},
		{R180, R180, R0},
		{R270, R270, R180},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Combine(tt.r, tt.delta), "%s + %s", tt.r, tt.delta)
	}

	for _, r := range []Rotation{R0, R90, R180, R270} {
		assert.Equal(t, r, r.RotateLeft().RotateRight())
		assert.Equal(t, r, r.RotateRight().RotateRight().RotateRight().RotateRight())
	}
}

// rotateClockwise turns a w x h box a quarter clockwise into an h x w box.
func rotateClockwise(cells [][]bool) [][]bool {
	h := len(cells)
	w := len(cells[0])
	rotated := make([][]bool, w)
	for y := range rotated {
		rotated[y] = make([]bool, h)
		for x := range rotated[y] {
			rotated[y][x] = cells[h-1-x][y]
		}
	}
	return rotated
}

func boxAt(s Shape, r Rotation) [][]bool {
	box := make([][]bool, s.Height(r))
	for y := range box {
		box[y] = make([]bool, s.Width(r))
		for x := range box[y] {
			box[y][x] = s.Cell(x, y, r)
		}
	}
	return box
}

func TestShape_rotationIsClockwiseTurn(t *testing.T) {
	for _, s := range Shapes {
		t.Run(s.String(), func(t *testing.T) {
			box := boxAt(s, R0)
			for _, r := range []Rotation{R90, R180, R270} {
				box = rotateClockwise(box)
				assert.Equal(t, box, boxAt(s, r), "rotation %s", r)
			}
		})
	}
}

func TestShape_rotationPreservesOccupiedCells(t *testing.T) {
	for _, s := range Shapes {
		t.Run(s.String(), func(t *testing.T) {
			for _, r := range []Rotation{R0, R90, R180, R270} {
				count := 0
				for y := 0; y < PreviewSize; y++ {
					for x := 0; x < PreviewSize; x++ {
						if s.Cell(x, y, r) {
							count++
						}
					}
				}
				assert.Equal(t, 4, count, "rotation %s", r)
				assert.Equal(t, s.Width(r), s.Height(Combine(r, R90)))
			}
		})
	}
}

func TestShape_cellOutsideBox(t *testing.T) {
	assert.False(t, ShapeI.Cell(0, 1, R0))
	assert.False(t, ShapeI.Cell(1, 0, R90))
	assert.False(t, ShapeO.Cell(-1, 0, R0))
	assert.True(t, ShapeI.Cell(0, 3, R90))
}

func TestShape_cellType(t *testing.T) {
	want := []CellType{CellI, CellJ, CellL, CellO, CellS, CellT, CellZ}
	for i, s := range Shapes {
		assert.Equal(t, want[i], s.CellType())
		assert.True(t, s.CellType().IsColor())
	}
	assert.False(t, CellBlasted.IsColor())
	assert.False(t, CellEmpty.IsColor())
}
