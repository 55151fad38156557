// Package game is the bubbletea model of the terminal client. It runs a pair
// locally for two players on one keyboard, or follows a match on a server.
package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cbodonnell/gametetris/client/input"
	"github.com/cbodonnell/gametetris/client/render"
	"github.com/cbodonnell/gametetris/pkg/config"
	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/cbodonnell/gametetris/pkg/tetris"
	tea "github.com/charmbracelet/bubbletea"
)

type GameMode int

const (
	GameModeWaiting GameMode = iota
	GameModePlay
	GameModeOver
	GameModeNetworkError
)

func (m GameMode) String() string {
	switch m {
	case GameModeWaiting:
		return "Waiting"
	case GameModePlay:
		return "Play"
	case GameModeOver:
		return "Over"
	case GameModeNetworkError:
		return "Network Error"
	}
	return "Unknown"
}

// Connection is the server link of a networked game.
type Connection interface {
	ServerMessageQueue() queue.Queue
	ErrChan() <-chan error
	SendAction(action tetris.Action) error
	SendStep() error
	Name() string
	Ping() float64
}

type tickMsg time.Time

type networkErrMsg struct {
	err error
}

// Model implements tea.Model for both local and networked games.
type Model struct {
	mode         GameMode
	style        render.Style
	keys         input.KeyMap
	tickInterval time.Duration

	// local hot-seat game
	cfg   *config.Config
	names [2]string
	pair  *pair.Pair

	// networked game
	conn        Connection
	matchID     string
	opponent    string
	rateMatched bool
	// local ticks to skip after a throttle
	holdSteps int

	snapshot *pair.PairSnapshot
	status   string
	err      error
}

// NewHotSeatModel creates a local game for two players sharing the keyboard.
func NewHotSeatModel(cfg *config.Config, names [2]string, style render.Style) (*Model, error) {
	m := &Model{
		style:        style,
		keys:         input.HotSeatKeys(),
		tickInterval: cfg.TickInterval,
		cfg:          cfg,
		names:        names,
	}
	if err := m.restartLocal(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewNetworkModel creates a game played through conn.
func NewNetworkModel(conn Connection, tickInterval time.Duration, style render.Style) *Model {
	return &Model{
		mode:         GameModeWaiting,
		style:        style,
		keys:         input.SinglePlayerKeys(),
		tickInterval: tickInterval,
		conn:         conn,
		status:       fmt.Sprintf("Logged in as %s, waiting for an opponent", conn.Name()),
	}
}

func (m *Model) restartLocal() error {
	p, err := pair.New(pair.Options{
		NameA:      m.names[pair.SideA],
		NameB:      m.names[pair.SideB],
		Cols:       m.cfg.Cols,
		Rows:       m.cfg.Rows,
		ClearDelay: m.cfg.ClearDelay,
	})
	if err != nil {
		return fmt.Errorf("failed to create pair: %v", err)
	}
	if err := p.SetFallSpeed(m.cfg.Fall.Ticks, m.cfg.Fall.Steps); err != nil {
		return err
	}
	if err := p.SetDropSpeed(m.cfg.Drop.Ticks, m.cfg.Drop.Steps); err != nil {
		return err
	}
	if err := p.SetLineRemoveSpeed(m.cfg.LineRemove.Ticks, m.cfg.LineRemove.Steps); err != nil {
		return err
	}
	m.pair = p
	m.snapshot = p.Snapshot(pair.SideA)
	m.mode = GameModePlay
	m.status = ""
	return nil
}

func (m *Model) Mode() GameMode {
	return m.mode
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	if m.conn != nil {
		cmds = append(cmds, waitForNetworkErr(m.conn.ErrChan()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForNetworkErr(errChan <-chan error) tea.Cmd {
	return func() tea.Msg {
		return networkErrMsg{err: <-errChan}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.mode == GameModeNetworkError {
			return m, nil
		}
		if m.conn != nil {
			m.networkTick()
		} else {
			m.localTick()
		}
		return m, m.tickCmd()
	case networkErrMsg:
		m.mode = GameModeNetworkError
		m.err = msg.err
		log.Error("Network error: %v", msg.err)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	if input.IsQuit(key) {
		return tea.Quit
	}
	if m.mode == GameModeNetworkError {
		return tea.Quit
	}
	if key == "r" && m.mode == GameModeOver && m.conn == nil {
		if err := m.restartLocal(); err != nil {
			log.Error("Failed to restart: %v", err)
		}
		return nil
	}
	if m.mode != GameModePlay {
		return nil
	}

	binding, ok := m.keys.Lookup(key)
	if !ok {
		return nil
	}
	if m.conn != nil {
		if err := m.conn.SendAction(binding.Action); err != nil {
			log.Warn("Failed to send action: %v", err)
		}
		return nil
	}
	if err := m.pair.AddPlayerAction(binding.Side, binding.Action); err != nil {
		log.Warn("Failed to add action: %v", err)
	}
	return nil
}

func (m *Model) localTick() {
	if m.mode != GameModePlay {
		return
	}
	m.pair.Step()
	m.snapshot = m.pair.Snapshot(pair.SideA)
	if !m.pair.IsGameOver() {
		return
	}

	m.mode = GameModeOver
	if winner, ok := m.pair.Winner(); ok {
		m.status = fmt.Sprintf("%s wins! Press r to play again.", m.names[winner])
	} else {
		m.status = "Draw! Press r to play again."
	}
}

func (m *Model) networkTick() {
	pending, err := m.conn.ServerMessageQueue().ReadAllMessages()
	if err != nil {
		log.Error("Failed to read server messages: %v", err)
		return
	}
	for _, item := range pending {
		msg, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}
		if err := m.handleServerMessage(msg); err != nil {
			log.Error("Failed to handle %s: %v", msg.Type, err)
		}
	}

	if m.mode != GameModePlay || !m.rateMatched {
		return
	}
	if m.holdSteps > 0 {
		m.holdSteps--
		return
	}
	if err := m.conn.SendStep(); err != nil {
		log.Warn("Failed to send step: %v", err)
	}
}

func (m *Model) handleServerMessage(msg *messages.Message) error {
	switch msg.Type {
	case messages.MessageTypeServerMatchStart:
		start := &messages.ServerMatchStart{}
		if err := json.Unmarshal(msg.Payload, start); err != nil {
			return fmt.Errorf("failed to unmarshal match start: %v", err)
		}
		m.mode = GameModePlay
		m.matchID = start.MatchID
		m.opponent = start.Opponent
		m.rateMatched = start.RateMatched
		m.holdSteps = 0
		m.snapshot = nil
		m.status = fmt.Sprintf("Playing against %s", start.Opponent)
	case messages.MessageTypeServerPairState:
		state, err := messages.DeserializePairState(msg.Payload)
		if err != nil {
			return err
		}
		if state.MatchID != m.matchID {
			return nil
		}
		m.snapshot = state.State
	case messages.MessageTypeServerThrottle:
		throttle := &messages.ServerThrottle{}
		if err := json.Unmarshal(msg.Payload, throttle); err != nil {
			return fmt.Errorf("failed to unmarshal throttle: %v", err)
		}
		m.holdSteps = throttle.Divergence
	case messages.MessageTypeServerGameOver:
		over := &messages.ServerGameOver{}
		if err := json.Unmarshal(msg.Payload, over); err != nil {
			return fmt.Errorf("failed to unmarshal game over: %v", err)
		}
		m.mode = GameModeOver
		switch over.Result {
		case messages.GameResultWin:
			m.status = "You win! Waiting for the next match."
		case messages.GameResultLose:
			m.status = "You lose! Waiting for the next match."
		default:
			m.status = "Draw! Waiting for the next match."
		}
	case messages.MessageTypeServerOpponentLeft:
		m.status = fmt.Sprintf("%s left the match", m.opponent)
	default:
		return fmt.Errorf("unexpected message type %s", msg.Type)
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	if m.snapshot != nil && m.snapshot.Player != nil && m.snapshot.Opponent != nil {
		b.WriteString(render.Pair(m.snapshot, m.style))
		b.WriteString("\n\n")
	}
	switch m.mode {
	case GameModeNetworkError:
		fmt.Fprintf(&b, "Connection lost: %v\nPress any key to quit.", m.err)
		return b.String()
	default:
		b.WriteString(m.status)
	}
	if m.conn != nil {
		fmt.Fprintf(&b, "\nping %.0fms", m.conn.Ping())
	}
	b.WriteString("\nesc to quit")
	return b.String()
}
