// Package session runs the server game loop: it pairs lobby players into
// matches, feeds their inputs to the boards and publishes the results.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cbodonnell/gametetris/pkg/config"
	"github.com/cbodonnell/gametetris/pkg/lobby"
	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/queue"
	sessiontypes "github.com/cbodonnell/gametetris/pkg/session/types"
	"github.com/cbodonnell/gametetris/pkg/state"
	"github.com/cbodonnell/gametetris/pkg/tetris"
	"github.com/cbodonnell/gametetris/pkg/workers"
	"github.com/kamstrup/intmap"
)

// FinishedMatchRetention is how many finished matches keep their final state
// in the state manager.
const FinishedMatchRetention = 32

// Match is a running pair and the two clients playing it.
type Match struct {
	ID      string
	Pair    *pair.Pair
	Players [2]lobby.Player
	Tick    uint64
	// last snapshot sent to each side
	last [2]*pair.PairSnapshot
}

// side returns the side a client plays in the match.
func (m *Match) side(clientID uint32) pair.Side {
	if m.Players[pair.SideB].ClientID == clientID {
		return pair.SideB
	}
	return pair.SideA
}

func (m *Match) player(side pair.Side) lobby.Player {
	return m.Players[side]
}

type GameManager struct {
	cfg                  *config.Config
	clientMessageQueue   queue.Queue
	connectionEventQueue queue.Queue
	lobby                *lobby.Lobby
	stateManager         state.StateManager
	broadcastMessageChan chan<- workers.BroadcastMessage
	gameLoopInterval     time.Duration
	seed                 uint64

	matches         map[string]*Match
	matchesByClient *intmap.Map[uint32, *Match]
	finished        []string
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Config               *config.Config
	ClientMessageQueue   queue.Queue
	ConnectionEventQueue queue.Queue
	Lobby                *lobby.Lobby
	StateManager         state.StateManager
	BroadcastMessageChan chan<- workers.BroadcastMessage
	// Seed seeds every new match. Zero picks a time-based seed per match.
	Seed uint64
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	return &GameManager{
		cfg:                  opts.Config,
		clientMessageQueue:   opts.ClientMessageQueue,
		connectionEventQueue: opts.ConnectionEventQueue,
		lobby:                opts.Lobby,
		stateManager:         opts.StateManager,
		broadcastMessageChan: opts.BroadcastMessageChan,
		gameLoopInterval:     opts.Config.TickInterval,
		seed:                 opts.Seed,
		matches:              make(map[string]*Match),
		matchesByClient:      intmap.New[uint32, *Match](64),
	}
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	if gm.gameLoopInterval <= 0 {
		return fmt.Errorf("invalid game loop interval: %v", gm.gameLoopInterval)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if err := gm.gameTick(ctx, t); err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) error {
	gm.processConnectionEvents(ctx, t)
	gm.startMatches(ctx)
	gm.processClientMessages(ctx)
	if gm.cfg.Mode == config.ModeLockstep {
		for _, m := range gm.matches {
			m.Pair.Step()
			m.Tick++
		}
	}
	gm.publishMatches(ctx, t)

	return nil
}

// processConnectionEvents moves new players into the lobby and ends the
// matches of players that went away.
func (gm *GameManager) processConnectionEvents(ctx context.Context, t time.Time) {
	pendingEvents, err := gm.connectionEventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read connection events: %v", err)
		return
	}
	for _, item := range pendingEvents {
		switch event := item.(type) {
		case *sessiontypes.ConnectPlayerEvent:
			log.Debug("Player %s joined the lobby as client %d", event.Name, event.ClientID)
			gm.lobby.Join(ctx, lobby.Player{
				ClientID: event.ClientID,
				PlayerID: event.PlayerID,
				Name:     event.Name,
			})
		case *sessiontypes.DisconnectPlayerEvent:
			if m, ok := gm.matchesByClient.Get(event.ClientID); ok {
				gm.abandonMatch(ctx, t, m, m.side(event.ClientID))
			}
			gm.lobby.Leave(ctx, lobby.Player{
				ClientID: event.ClientID,
				PlayerID: event.PlayerID,
			})
			log.Debug("Client %d left", event.ClientID)
		default:
			log.Error("unhandled connection event type: %T", event)
		}
	}
}

// startMatches creates a match for every pairing the lobby can make.
func (gm *GameManager) startMatches(ctx context.Context) {
	for _, pairing := range gm.lobby.Pair(ctx) {
		p, err := gm.newPair(pairing)
		if err != nil {
			log.Error("Failed to create match %s: %v", pairing.MatchID, err)
			gm.lobby.Join(ctx, pairing.A)
			gm.lobby.Join(ctx, pairing.B)
			continue
		}

		m := &Match{
			ID:      pairing.MatchID,
			Pair:    p,
			Players: [2]lobby.Player{pairing.A, pairing.B},
		}
		gm.matches[m.ID] = m
		gm.matchesByClient.Put(pairing.A.ClientID, m)
		gm.matchesByClient.Put(pairing.B.ClientID, m)
		log.Info("Match %s started: %s vs %s", m.ID, pairing.A.Name, pairing.B.Name)

		for _, side := range []pair.Side{pair.SideA, pair.SideB} {
			gm.broadcast(ctx, workers.BroadcastMessage{
				ClientIDs: []uint32{m.player(side).ClientID},
				Type:      messages.MessageTypeServerMatchStart,
				Message: &messages.ServerMatchStart{
					MatchID:     m.ID,
					Opponent:    m.player(side.Opponent()).Name,
					Cols:        gm.cfg.Cols,
					Rows:        gm.cfg.Rows,
					RateMatched: gm.cfg.Mode == config.ModeRateMatched,
				},
			})
		}
	}
}

func (gm *GameManager) newPair(pairing lobby.Pairing) (*pair.Pair, error) {
	p, err := pair.New(pair.Options{
		NameA:      pairing.A.Name,
		NameB:      pairing.B.Name,
		Cols:       gm.cfg.Cols,
		Rows:       gm.cfg.Rows,
		ClearDelay: gm.cfg.ClearDelay,
		Seed:       gm.seed,
	})
	if err != nil {
		return nil, err
	}
	if err := p.SetFallSpeed(gm.cfg.Fall.Ticks, gm.cfg.Fall.Steps); err != nil {
		return nil, err
	}
	if err := p.SetDropSpeed(gm.cfg.Drop.Ticks, gm.cfg.Drop.Steps); err != nil {
		return nil, err
	}
	if err := p.SetLineRemoveSpeed(gm.cfg.LineRemove.Ticks, gm.cfg.LineRemove.Steps); err != nil {
		return nil, err
	}
	return p, nil
}

// processClientMessages applies the pending client inputs to their matches.
func (gm *GameManager) processClientMessages(ctx context.Context) {
	pendingMessages, err := gm.clientMessageQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read client messages: %v", err)
		return
	}
	for _, item := range pendingMessages {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}

		m, ok := gm.matchesByClient.Get(message.ClientID)
		if !ok {
			log.Debug("Ignoring %s from client %d outside a match", message.Type, message.ClientID)
			continue
		}
		side := m.side(message.ClientID)

		switch message.Type {
		case messages.MessageTypeClientAction:
			clientAction := &messages.ClientAction{}
			if err := json.Unmarshal(message.Payload, clientAction); err != nil {
				log.Error("Failed to unmarshal client action: %v", err)
				continue
			}
			action, err := tetris.ParsePlayerAction(clientAction.Action)
			if err != nil {
				log.Warn("Rejected action from client %d: %v", message.ClientID, err)
				continue
			}
			if err := m.Pair.AddPlayerAction(side, action); err != nil {
				log.Warn("Failed to add action for client %d: %v", message.ClientID, err)
			}
		case messages.MessageTypeClientStep:
			if gm.cfg.Mode != config.ModeRateMatched {
				continue
			}
			gm.stepPlayer(ctx, m, side)
		default:
			log.Error("Unhandled client message type: %v", message.Type)
		}
	}
}

// stepPlayer advances a rate-matched match on behalf of one side and
// throttles that side once it runs too far ahead.
func (gm *GameManager) stepPlayer(ctx context.Context, m *Match, side pair.Side) {
	divergence := m.Pair.StepPlayer(side)
	if divergence == 0 {
		m.Tick++
		return
	}
	if gm.cfg.MaxDivergence <= 0 || divergence <= gm.cfg.MaxDivergence {
		return
	}

	client := m.player(side)
	log.Warn("Player %s is %d steps ahead in match %s", client.Name, divergence, m.ID)
	gm.broadcast(ctx, workers.BroadcastMessage{
		ClientIDs: []uint32{client.ClientID},
		Type:      messages.MessageTypeServerThrottle,
		Message:   &messages.ServerThrottle{Divergence: divergence},
	})
}

// publishMatches sends every side whose view changed its new state and ends
// the matches that are over.
func (gm *GameManager) publishMatches(ctx context.Context, t time.Time) {
	for _, m := range gm.matches {
		changed := false
		for _, side := range []pair.Side{pair.SideA, pair.SideB} {
			snapshot := m.Pair.Snapshot(side)
			if pairSnapshotsEqual(snapshot, m.last[side]) {
				continue
			}
			m.last[side] = snapshot
			changed = true

			gm.broadcast(ctx, workers.BroadcastMessage{
				ClientIDs: []uint32{m.player(side).ClientID},
				Type:      messages.MessageTypeServerPairState,
				Message: &messages.ServerPairState{
					MatchID:    m.ID,
					Tick:       m.Tick,
					Divergence: m.Pair.Divergence(),
					State:      snapshot,
				},
			})
		}

		if m.Pair.IsGameOver() {
			gm.finishMatch(ctx, t, m)
			continue
		}
		if changed {
			gm.saveState(ctx, t, m, "")
		}
	}
}

// finishMatch tells both players the outcome and sends them back to the lobby.
func (gm *GameManager) finishMatch(ctx context.Context, t time.Time, m *Match) {
	winner, ok := m.Pair.Winner()
	winnerName := ""
	if ok {
		winnerName = m.player(winner).Name
	}
	log.Info("Match %s over after %d ticks, winner: %q", m.ID, m.Tick, winnerName)

	for _, side := range []pair.Side{pair.SideA, pair.SideB} {
		result := messages.GameResultDraw
		if ok && side == winner {
			result = messages.GameResultWin
		} else if ok {
			result = messages.GameResultLose
		}
		gm.broadcast(ctx, workers.BroadcastMessage{
			ClientIDs: []uint32{m.player(side).ClientID},
			Type:      messages.MessageTypeServerGameOver,
			Message:   &messages.ServerGameOver{MatchID: m.ID, Result: result},
		})
	}

	gm.endMatch(ctx, t, m, winnerName)
	for _, p := range m.Players {
		gm.lobby.Join(ctx, p)
	}
}

// abandonMatch ends a match because the player on side left. The opponent
// wins and goes back to the lobby.
func (gm *GameManager) abandonMatch(ctx context.Context, t time.Time, m *Match, side pair.Side) {
	opponent := m.player(side.Opponent())
	log.Info("Match %s abandoned by %s", m.ID, m.player(side).Name)

	gm.broadcast(ctx, workers.BroadcastMessage{
		ClientIDs: []uint32{opponent.ClientID},
		Type:      messages.MessageTypeServerOpponentLeft,
		Message:   &messages.ServerOpponentLeft{MatchID: m.ID},
	})
	gm.broadcast(ctx, workers.BroadcastMessage{
		ClientIDs: []uint32{opponent.ClientID},
		Type:      messages.MessageTypeServerGameOver,
		Message:   &messages.ServerGameOver{MatchID: m.ID, Result: messages.GameResultWin},
	})

	gm.endMatch(ctx, t, m, opponent.Name)
	gm.lobby.Join(ctx, opponent)
}

func (gm *GameManager) endMatch(ctx context.Context, t time.Time, m *Match, winner string) {
	gm.saveState(ctx, t, m, winner)

	delete(gm.matches, m.ID)
	for _, p := range m.Players {
		gm.matchesByClient.Del(p.ClientID)
	}

	gm.finished = append(gm.finished, m.ID)
	for len(gm.finished) > FinishedMatchRetention {
		if err := gm.stateManager.Delete(ctx, gm.finished[0]); err != nil && err != state.ErrNotFound {
			log.Error("Failed to delete state of match %s: %v", gm.finished[0], err)
		}
		gm.finished = gm.finished[1:]
	}
}

func (gm *GameManager) saveState(ctx context.Context, t time.Time, m *Match, winner string) {
	err := gm.stateManager.Set(ctx, &state.MatchState{
		MatchID:    m.ID,
		Tick:       m.Tick,
		PlayerA:    m.Players[pair.SideA].Name,
		PlayerB:    m.Players[pair.SideB].Name,
		Divergence: m.Pair.Divergence(),
		GameOver:   m.Pair.IsGameOver() || winner != "",
		Winner:     winner,
		Boards:     m.Pair.Snapshot(pair.SideA),
		UpdatedAt:  t,
	})
	if err != nil {
		log.Error("Failed to save state of match %s: %v", m.ID, err)
	}
}

func (gm *GameManager) broadcast(ctx context.Context, msg workers.BroadcastMessage) {
	select {
	case <-ctx.Done():
	case gm.broadcastMessageChan <- msg:
	}
}

// Matches returns the number of running matches.
func (gm *GameManager) Matches() int {
	return len(gm.matches)
}

func pairSnapshotsEqual(a, b *pair.PairSnapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Player.Equal(b.Player) && a.Opponent.Equal(b.Opponent)
}
