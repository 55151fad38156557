package tetris

import (
	"fmt"
	"strconv"
)

// Snapshot is a read-only projection of a board with the active piece drawn
// into the field. It shares no memory with the board it was taken from.
type Snapshot struct {
	Name     string `json:"name,omitempty"`
	Cols     int    `json:"cols"`
	Rows     int    `json:"rows"`
	Field    Grid   `json:"field"`
	Preview  Grid   `json:"preview"`
	GameOver bool   `json:"game_over"`
}

// Equal reports whether two snapshots hold the same values.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Name == other.Name &&
		s.Cols == other.Cols &&
		s.Rows == other.Rows &&
		s.GameOver == other.GameOver &&
		s.Field.Equal(other.Field) &&
		s.Preview.Equal(other.Preview)
}

// MarshalJSON encodes a cell as its numeric value so rows encode as arrays.
func (c CellType) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(c), 10), nil
}

func (c *CellType) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseUint(string(b), 10, 8)
	if err != nil {
		return fmt.Errorf("failed to parse cell: %v", err)
	}
	if CellType(v) > CellZ {
		return fmt.Errorf("cell value %d out of range", v)
	}
	*c = CellType(v)
	return nil
}
