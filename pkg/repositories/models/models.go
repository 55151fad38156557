package models

import "time"

// PlayerStatus is where a registered player currently is.
type PlayerStatus string

const (
	PlayerStatusWaiting PlayerStatus = "waiting"
	PlayerStatusPlaying PlayerStatus = "playing"
)

// Player is an entry in the player registry.
type Player struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	ClientID  uint32       `json:"client_id"`
	Status    PlayerStatus `json:"status"`
	MatchID   string       `json:"match_id,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}
