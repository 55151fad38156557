// Package render draws board snapshots as terminal text.
package render

import (
	"strings"

	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/tetris"
)

const ansiReset = "\x1b[0m"

// Style controls the glyphs and colors used to draw a board. Cell glyphs
// must be two columns wide.
type Style struct {
	// Color enables ANSI colors.
	Color      bool
	Empty      string
	Blasted    string
	Block      string
	Vertical   string
	Horizontal string
	Corner     string
	// Gap is the number of spaces between the two boards of a pair.
	Gap int
}

// DefaultStyle draws colored blocks on a black background.
func DefaultStyle() Style {
	return Style{
		Color:      true,
		Empty:      "  ",
		Blasted:    "@@",
		Block:      "[]",
		Vertical:   "|",
		Horizontal: "--",
		Corner:     "+",
		Gap:        4,
	}
}

// PlainStyle draws without escape codes, for logs and tests.
func PlainStyle() Style {
	s := DefaultStyle()
	s.Color = false
	s.Empty = " ."
	return s
}

var cellColors = map[tetris.CellType]string{
	tetris.CellEmpty:   "\x1b[2;40m",
	tetris.CellBlasted: "\x1b[31;40m",
	tetris.CellI:       "\x1b[37;46m",
	tetris.CellJ:       "\x1b[37;44m",
	tetris.CellL:       "\x1b[37;43m",
	tetris.CellO:       "\x1b[37;42m",
	tetris.CellS:       "\x1b[37;45m",
	tetris.CellT:       "\x1b[37;41m",
	tetris.CellZ:       "\x1b[37;43m",
}

const borderColor = "\x1b[2;40m"

func (s Style) paint(color, text string) string {
	if !s.Color {
		return text
	}
	return color + text + ansiReset
}

func (s Style) cell(c tetris.CellType) string {
	glyph := s.Block
	switch c {
	case tetris.CellEmpty:
		glyph = s.Empty
	case tetris.CellBlasted:
		glyph = s.Blasted
	}
	return s.paint(cellColors[c], glyph)
}

func (s Style) border(width int) string {
	return s.paint(borderColor, s.Corner+strings.Repeat(s.Horizontal, width)+s.Corner)
}

// block is rendered text with a known visible width.
type block struct {
	lines []string
	width int
}

// grid draws g between vertical borders, closed at the bottom and optionally
// at the top.
func (s Style) grid(g tetris.Grid, closedTop bool) block {
	var lines []string
	if closedTop {
		lines = append(lines, s.border(g.Cols()))
	}
	for _, row := range g {
		var b strings.Builder
		b.WriteString(s.paint(borderColor, s.Vertical))
		for _, c := range row {
			b.WriteString(s.cell(c))
		}
		b.WriteString(s.paint(borderColor, s.Vertical))
		lines = append(lines, b.String())
	}
	lines = append(lines, s.border(g.Cols()))
	return block{
		lines: lines,
		width: 2*g.Cols() + 2*len(s.Vertical),
	}
}

// Board renders a snapshot as its name, the field and the preview to its right.
func Board(snapshot *tetris.Snapshot, s Style) []string {
	b := s.board(snapshot)
	return b.lines
}

func (s Style) board(snapshot *tetris.Snapshot) block {
	field := s.grid(snapshot.Field, false)
	preview := s.grid(snapshot.Preview, true)
	body := join(field, preview, 1)

	title := snapshot.Name
	if snapshot.GameOver {
		title += " (game over)"
	}
	lines := append([]string{pad(title, body.width, len(title))}, body.lines...)
	return block{lines: lines, width: body.width}
}

// Pair renders the player's board on the left and the opponent's on the right.
func Pair(snapshot *pair.PairSnapshot, s Style) string {
	out := join(s.board(snapshot.Player), s.board(snapshot.Opponent), s.Gap)
	return strings.Join(out.lines, "\n")
}

// join places right next to left, gap columns apart. Missing lines are padded.
func join(left, right block, gap int) block {
	n := len(left.lines)
	if len(right.lines) > n {
		n = len(right.lines)
	}
	lines := make([]string, n)
	for i := range lines {
		l, r := "", ""
		lw := 0
		if i < len(left.lines) {
			l, lw = left.lines[i], left.width
		}
		if i < len(right.lines) {
			r = right.lines[i]
		}
		lines[i] = pad(l, left.width+gap, lw) + r
	}
	return block{lines: lines, width: left.width + gap + right.width}
}

// pad appends spaces to text, whose visible width is visible, up to width.
func pad(text string, width, visible int) string {
	if visible >= width {
		return text
	}
	return text + strings.Repeat(" ", width-visible)
}
