package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/cbodonnell/gametetris/pkg/tetris"
)

const (
	DefaultServerURL = "ws://localhost:8888/ws"
	loginTimeout     = 5 * time.Second
	pingInterval     = 2 * time.Second
	pongTimeout      = 5 * time.Second
)

// NetworkManager represents a network manager.
type NetworkManager struct {
	serverMessageQueue queue.Queue
	wsClient           *WSClient
	wsClientErrChan    chan error
	cancelClientCtx    context.CancelFunc
	clientWaitGroup    *sync.WaitGroup
	loginChan          chan *messages.ServerLoginSuccess
	loginErrChan       chan error
	pongChan           chan time.Time
	login              *messages.ServerLoginSuccess
	ping               float64
	recentRTTs         []int64
	pingMutex          sync.Mutex
}

// NewNetworkManager creates a new network manager.
func NewNetworkManager(serverURL string, messageQueue queue.Queue) *NetworkManager {
	loginChan := make(chan *messages.ServerLoginSuccess)
	loginErrChan := make(chan error)
	pongChan := make(chan time.Time, 1)

	return &NetworkManager{
		serverMessageQueue: messageQueue,
		wsClient:           NewWSClient(serverURL, messageQueue, loginChan, loginErrChan, pongChan),
		wsClientErrChan:    make(chan error, 1),
		clientWaitGroup:    &sync.WaitGroup{},
		loginChan:          loginChan,
		loginErrChan:       loginErrChan,
		pongChan:           pongChan,
	}
}

// Start connects to the server and logs in. An empty name lets the server pick one.
func (m *NetworkManager) Start(name string) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelClientCtx = cancel

	if err := m.wsClient.Connect(ctx); err != nil {
		cancel()
		m.cancelClientCtx = nil
		return err
	}

	m.clientWaitGroup.Add(1)
	go func(ctx context.Context) {
		defer m.clientWaitGroup.Done()
		if err := m.wsClient.HandleMessages(ctx); err != nil {
			m.wsClientErrChan <- err
		}
	}(ctx)

	msg, err := messages.NewMessage(messages.MessageTypeClientLogin, &messages.ClientLogin{Name: name})
	if err != nil {
		return m.abortStart(fmt.Errorf("failed to create login message: %v", err))
	}
	if err := m.SendMessage(msg); err != nil {
		return m.abortStart(fmt.Errorf("failed to send login message: %v", err))
	}

	select {
	case err := <-m.loginErrChan:
		return m.abortStart(err)
	case err := <-m.wsClientErrChan:
		return m.abortStart(fmt.Errorf("connection lost during login: %v", err))
	case <-time.After(loginTimeout):
		return m.abortStart(fmt.Errorf("timed out waiting for login"))
	case m.login = <-m.loginChan:
		log.Info("Logged in as %s with client ID %d", m.login.Name, m.login.ClientID)
	}

	m.clientWaitGroup.Add(1)
	go func(ctx context.Context) {
		defer m.clientWaitGroup.Done()
		m.pingLoop(ctx)
	}(ctx)

	return nil
}

// abortStart stops the message handler of a failed login and returns err.
func (m *NetworkManager) abortStart(err error) error {
	m.cancelClientCtx()
	m.clientWaitGroup.Wait()
	m.cancelClientCtx = nil
	// the handler reports its own shutdown
	select {
	case <-m.wsClientErrChan:
	default:
	}
	return err
}

func (m *NetworkManager) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.measurePing(ctx); err != nil {
				log.Warn("Failed to measure ping: %v", err)
			}
		}
	}
}

func (m *NetworkManager) measurePing(ctx context.Context) error {
	// drop a pong that arrived after an earlier timeout
	select {
	case <-m.pongChan:
	default:
	}

	sent := time.Now()
	if err := m.SendMessage(&messages.Message{Type: messages.MessageTypeClientPing}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(pongTimeout):
		return fmt.Errorf("timed out waiting for server pong")
	case received := <-m.pongChan:
		m.recordRTT(received.Sub(sent).Milliseconds())
	}
	return nil
}

// recordRTT keeps the last 10 round trips and averages them without outliers.
func (m *NetworkManager) recordRTT(rtt int64) {
	m.pingMutex.Lock()
	defer m.pingMutex.Unlock()

	m.recentRTTs = append(m.recentRTTs, rtt)
	for len(m.recentRTTs) > 10 {
		m.recentRTTs = m.recentRTTs[1:]
	}

	sampleRTTs := removeOutlierRTTs(m.recentRTTs)
	ping := 0.0
	for _, p := range sampleRTTs {
		ping += float64(p)
	}
	if len(sampleRTTs) > 0 {
		ping /= float64(len(sampleRTTs))
	}
	m.ping = ping
	log.Trace("Ping: %.1fms", ping)
}

// Stop stops the network manager and its client and clears the server message queue.
func (m *NetworkManager) Stop() error {
	if m.cancelClientCtx == nil {
		log.Warn("Network manager already stopped")
		return nil
	}
	if err := m.wsClient.Close(); err != nil {
		log.Debug("Failed to close WebSocket client: %v", err)
	}
	m.cancelClientCtx()

	log.Debug("Waiting for clients to stop")
	m.clientWaitGroup.Wait()
	m.serverMessageQueue.ClearQueue()

	m.login = nil
	m.cancelClientCtx = nil

	log.Info("Network manager stopped")

	return nil
}

// Ping returns the average round trip time in milliseconds.
func (m *NetworkManager) Ping() float64 {
	m.pingMutex.Lock()
	defer m.pingMutex.Unlock()
	return m.ping
}

func (m *NetworkManager) ServerMessageQueue() queue.Queue {
	return m.serverMessageQueue
}

func (m *NetworkManager) ErrChan() <-chan error {
	return m.wsClientErrChan
}

// Name returns the name the server assigned, or "" before login.
func (m *NetworkManager) Name() string {
	if m.login == nil {
		return ""
	}
	return m.login.Name
}

func (m *NetworkManager) ClientID() uint32 {
	if m.login == nil {
		return 0
	}
	return m.login.ClientID
}

// SendAction sends a player action.
func (m *NetworkManager) SendAction(action tetris.Action) error {
	msg, err := messages.NewMessage(messages.MessageTypeClientAction, &messages.ClientAction{Action: action.String()})
	if err != nil {
		return err
	}
	return m.SendMessage(msg)
}

// SendStep asks the server for the next tick of a rate-matched match.
func (m *NetworkManager) SendStep() error {
	return m.SendMessage(&messages.Message{Type: messages.MessageTypeClientStep})
}

func (m *NetworkManager) SendMessage(msg *messages.Message) error {
	msg.ClientID = m.ClientID()
	return m.wsClient.SendMessage(msg)
}
