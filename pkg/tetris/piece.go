package tetris

// Piece is a shape placed on a grid. X and Y locate the top-left corner of
// its rotated bounding box.
type Piece struct {
	Shape    Shape
	Rotation Rotation
	X        int
	Y        int
}

// Moved returns a copy of the piece shifted by (dx, dy) and turned by dr.
func (p Piece) Moved(dx, dy int, dr Rotation) Piece {
	return Piece{
		Shape:    p.Shape,
		Rotation: Combine(p.Rotation, dr),
		X:        p.X + dx,
		Y:        p.Y + dy,
	}
}

// Intersects reports whether the piece leaves the grid or covers a non-empty cell.
func (p Piece) Intersects(g Grid) bool {
	if p.X < 0 || p.Y < 0 {
		return true
	}
	width := p.Shape.Width(p.Rotation)
	height := p.Shape.Height(p.Rotation)
	if p.X+width > g.Cols() || p.Y+height > g.Rows() {
		return true
	}
	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			if p.Shape.Cell(cx, cy, p.Rotation) && g[p.Y+cy][p.X+cx] != CellEmpty {
				return true
			}
		}
	}
	return false
}

// Draw writes the piece color into every occupied cell that lies inside the grid.
func (p Piece) Draw(g Grid) {
	width := p.Shape.Width(p.Rotation)
	height := p.Shape.Height(p.Rotation)
	color := p.Shape.CellType()
	rows, cols := g.Rows(), g.Cols()
	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			if !p.Shape.Cell(cx, cy, p.Rotation) {
				continue
			}
			x, y := p.X+cx, p.Y+cy
			if x >= 0 && x < cols && y >= 0 && y < rows {
				g[y][x] = color
			}
		}
	}
}
