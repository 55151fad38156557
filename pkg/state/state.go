package state

import (
	"context"
	"errors"
	"time"

	"github.com/cbodonnell/gametetris/pkg/pair"
)

// ErrNotFound is returned when no state is held for a match.
var ErrNotFound = errors.New("match not found")

// MatchState is the latest published state of one match.
type MatchState struct {
	MatchID    string             `json:"match_id"`
	Tick       uint64             `json:"tick"`
	PlayerA    string             `json:"player_a"`
	PlayerB    string             `json:"player_b"`
	Divergence int                `json:"divergence"`
	GameOver   bool               `json:"game_over"`
	Winner     string             `json:"winner,omitempty"`
	Boards     *pair.PairSnapshot `json:"boards"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// StateManager provides shared access to the latest match states.
// Implementations must be thread-safe. Values passed to Set must not be
// modified afterwards.
type StateManager interface {
	// Get returns a copy of the state of a match.
	Get(ctx context.Context, matchID string) (*MatchState, error)
	// List returns copies of all held states ordered by match ID.
	List(ctx context.Context) ([]*MatchState, error)
	// Set replaces the state of a match.
	Set(ctx context.Context, state *MatchState) error
	Delete(ctx context.Context, matchID string) error
}
