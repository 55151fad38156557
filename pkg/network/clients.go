package network

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/cbodonnell/gametetris/pkg/names"
	"github.com/google/uuid"
	"github.com/kamstrup/intmap"
	"nhooyr.io/websocket"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024
	// ConnectionEventChannelSize represents the size of the connection event channel
	ConnectionEventChannelSize = 1024
)

// MessageWriter is the write half of a client connection.
type MessageWriter interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
}

// Client represents a connected client
type Client struct {
	ID       uint32
	Conn     MessageWriter
	PlayerID uuid.UUID
	Name     string
}

// ConnectionEvent represents an event that happened to a client
type ConnectionEvent struct {
	ClientID uint32
	Type     ConnectionEventType
	Data     interface{}
}

// ConnectionEventType represents the type of a connection event
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

type ClientConnectData struct {
	PlayerID uuid.UUID
	Name     string
}

type ClientDisconnectData struct {
	PlayerID uuid.UUID
}

// ClientManager manages connected clients
type ClientManager struct {
	clients             *intmap.Map[uint32, *Client]
	conns               map[MessageWriter]uint32
	clientsLock         sync.RWMutex
	connectionEventChan chan ConnectionEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:             intmap.New[uint32, *Client](64),
		conns:               make(map[MessageWriter]uint32),
		connectionEventChan: make(chan ConnectionEvent, ConnectionEventChannelSize),
	}
}

// GetConnectionEventChan returns a one-way channel for receiving connection events
func (cm *ClientManager) GetConnectionEventChan() <-chan ConnectionEvent {
	return cm.connectionEventChan
}

// GetClients returns a slice with a copy of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, cm.clients.Len())
	cm.clients.ForEach(func(_ uint32, client *Client) bool {
		c := *client
		clients = append(clients, &c)
		return true
	})
	return clients
}

// GetClient returns a copy of a connected client
func (cm *ClientManager) GetClient(clientID uint32) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients.Get(clientID)
	if !ok {
		return nil, fmt.Errorf("client %d not found", clientID)
	}
	c := *client
	return &c, nil
}

// ConnectClient adds a new client to the manager and returns its ID
func (cm *ClientManager) ConnectClient(conn MessageWriter, identity names.Identity) (uint32, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	if id, ok := cm.conns[conn]; ok {
		return 0, fmt.Errorf("connection is already logged in as client %d", id)
	}

	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return 0, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	client := &Client{
		ID:       clientID,
		Conn:     conn,
		PlayerID: identity.ID,
		Name:     identity.Name,
	}
	cm.clients.Put(clientID, client)
	cm.conns[conn] = clientID

	cm.connectionEventChan <- ConnectionEvent{
		ClientID: clientID,
		Type:     ConnectionEventTypeConnect,
		Data: ClientConnectData{
			PlayerID: identity.ID,
			Name:     identity.Name,
		},
	}

	return clientID, nil
}

// GetClientIDByConn returns the ID of a client by its connection.
// Returns 0 if the client is not found
func (cm *ClientManager) GetClientIDByConn(conn MessageWriter) uint32 {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return cm.conns[conn]
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID uint32) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients.Get(clientID)
	if !ok {
		return
	}

	cm.connectionEventChan <- ConnectionEvent{
		ClientID: client.ID,
		Type:     ConnectionEventTypeDisconnect,
		Data: ClientDisconnectData{
			PlayerID: client.PlayerID,
		},
	}

	cm.clients.Del(clientID)
	delete(cm.conns, client.Conn)
}

func (cm *ClientManager) Exists(clientID uint32) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return cm.clients.Has(clientID)
}

// generateUniqueID generates a unique client ID with a maximum number of retries
// it reads from the clients, so it needs to be locked before calling
func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if !cm.clients.Has(id) {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
