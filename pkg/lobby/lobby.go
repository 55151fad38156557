// Package lobby pairs waiting players into matches and mirrors their status
// into the player registry.
package lobby

import (
	"context"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/repositories"
	"github.com/cbodonnell/gametetris/pkg/repositories/models"
	"github.com/google/uuid"
)

// Player is a logged-in client looking for or playing a match.
type Player struct {
	ClientID uint32
	PlayerID uuid.UUID
	Name     string
}

// Pairing is two players matched together. A plays side A.
type Pairing struct {
	MatchID string
	A       Player
	B       Player
}

// Lobby keeps waiting players in arrival order. It is owned by the game loop
// and is not safe for concurrent use.
type Lobby struct {
	repository repositories.Repository
	waiting    []Player
	newMatchID func() string
}

type NewLobbyOptions struct {
	Repository repositories.Repository
	// NewMatchID overrides the match ID generator.
	NewMatchID func() string
}

func NewLobby(opts NewLobbyOptions) *Lobby {
	newMatchID := opts.NewMatchID
	if newMatchID == nil {
		newMatchID = func() string { return uuid.NewString() }
	}
	return &Lobby{
		repository: opts.Repository,
		newMatchID: newMatchID,
	}
}

// Join puts a player at the back of the waiting list. Joining twice is a no-op.
func (l *Lobby) Join(ctx context.Context, p Player) {
	if l.indexOf(p.ClientID) >= 0 {
		return
	}
	l.waiting = append(l.waiting, p)

	err := l.repository.SavePlayer(ctx, &models.Player{
		ID:       p.PlayerID.String(),
		Name:     p.Name,
		ClientID: p.ClientID,
		Status:   models.PlayerStatusWaiting,
	})
	if err != nil {
		log.Error("Failed to register player %s: %v", p.Name, err)
	}
}

// Leave removes a player from the lobby and the registry, whether waiting or
// playing. It reports whether the player was waiting.
func (l *Lobby) Leave(ctx context.Context, p Player) bool {
	waiting := false
	if i := l.indexOf(p.ClientID); i >= 0 {
		l.waiting = append(l.waiting[:i], l.waiting[i+1:]...)
		waiting = true
	}

	if err := l.repository.DeletePlayer(ctx, p.PlayerID.String()); err != nil {
		log.Error("Failed to unregister player %s: %v", p.Name, err)
	}
	return waiting
}

// Pair matches waiting players two at a time, oldest first.
func (l *Lobby) Pair(ctx context.Context) []Pairing {
	var pairings []Pairing
	for len(l.waiting) >= 2 {
		pairing := Pairing{
			MatchID: l.newMatchID(),
			A:       l.waiting[0],
			B:       l.waiting[1],
		}
		l.waiting = l.waiting[2:]

		for _, p := range []Player{pairing.A, pairing.B} {
			err := l.repository.SetPlayerStatus(ctx, p.PlayerID.String(), models.PlayerStatusPlaying, pairing.MatchID)
			if err != nil {
				log.Error("Failed to mark player %s as playing: %v", p.Name, err)
			}
		}
		pairings = append(pairings, pairing)
	}
	return pairings
}

// Waiting returns the number of players waiting for an opponent.
func (l *Lobby) Waiting() int {
	return len(l.waiting)
}

func (l *Lobby) indexOf(clientID uint32) int {
	for i, p := range l.waiting {
		if p.ClientID == clientID {
			return i
		}
	}
	return -1
}
