package network

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the server.
	writeWait = 5 * time.Second
	// Maximum message size allowed from the server.
	maxMessageSize = messages.MessageBufferSize
)

// WSClient represents a WebSocket client.
type WSClient struct {
	serverAddr   string
	messageQueue queue.Queue
	loginChan    chan<- *messages.ServerLoginSuccess
	loginErrChan chan<- error
	pongChan     chan<- time.Time
	conn         *websocket.Conn
	writeMutex   sync.Mutex
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(serverAddr string, messageQueue queue.Queue, loginChan chan<- *messages.ServerLoginSuccess, loginErrChan chan<- error, pongChan chan<- time.Time) *WSClient {
	return &WSClient{
		serverAddr:   serverAddr,
		messageQueue: messageQueue,
		loginChan:    loginChan,
		loginErrChan: loginErrChan,
		pongChan:     pongChan,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect(ctx context.Context) error {
	log.Info("Connecting to WebSocket server at %s", c.serverAddr)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.serverAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	conn.SetReadLimit(maxMessageSize)
	c.conn = conn
	return nil
}

// HandleMessages reads messages from the server until the connection closes.
// Messages are handled in order.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	defer c.conn.Close()
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return &ErrConnectionClosedByClient{}
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", c.conn.RemoteAddr().String(), err)
				return err
			}
			log.Trace("Connection closed for %s", c.conn.RemoteAddr().String())
			return &ErrConnectionClosedByServer{}
		}
		if messageType != websocket.BinaryMessage {
			log.Warn("Ignoring non-binary WebSocket message")
			continue
		}

		if err := c.handleMessage(ctx, message); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

// handleMessage processes a received message.
func (c *WSClient) handleMessage(ctx context.Context, b []byte) error {
	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return fmt.Errorf("failed to deserialize message: %v", err)
	}
	log.Trace("Received message from WebSocket server of type %s", msg.Type)

	switch msg.Type {
	case messages.MessageTypeServerLoginSuccess:
		loginSuccess := &messages.ServerLoginSuccess{}
		if err := json.Unmarshal(msg.Payload, loginSuccess); err != nil {
			return fmt.Errorf("failed to deserialize server login success message: %v", err)
		}
		select {
		case c.loginChan <- loginSuccess:
		case <-ctx.Done():
		}
	case messages.MessageTypeServerLoginFailure:
		loginFailure := &messages.ServerLoginFailure{}
		if err := json.Unmarshal(msg.Payload, loginFailure); err != nil {
			return fmt.Errorf("failed to deserialize server login failure message: %v", err)
		}
		select {
		case c.loginErrChan <- fmt.Errorf("server login failure: %s", loginFailure.Reason):
		case <-ctx.Done():
		}
	case messages.MessageTypeServerPong:
		select {
		case c.pongChan <- time.Now():
		default:
			log.Debug("Dropped unexpected server pong")
		}
	case messages.MessageTypeServerMatchStart,
		messages.MessageTypeServerPairState,
		messages.MessageTypeServerThrottle,
		messages.MessageTypeServerGameOver,
		messages.MessageTypeServerOpponentLeft:
		if err := c.messageQueue.Enqueue(msg); err != nil {
			return fmt.Errorf("failed to enqueue message: %v", err)
		}
	default:
		return fmt.Errorf("received unexpected message type from WebSocket server: %s", msg.Type)
	}

	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		log.Debug("Failed to send close frame: %v", err)
	}
	return c.conn.Close()
}

// SendMessage sends a message to the WebSocket server. It is safe for
// concurrent use.
func (c *WSClient) SendMessage(msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %v", err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}
