package network

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/names"
	"github.com/cbodonnell/gametetris/pkg/queue"
)

// MaxNameLength caps the display name a client may ask for.
const MaxNameLength = 32

type NetworkManager struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	WSServer      *WSServer
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	WSPort        int
	WSServerTLS   *TLSConfig
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	return &NetworkManager{
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
		WSServer: NewWSServer(NewWSServerOptions{
			Port: options.WSPort,
			TLS:  options.WSServerTLS,
		}),
	}
}

func (n *NetworkManager) Start(ctx context.Context) {
	go n.WSServer.Start(ctx, n.handleDisconnect, n.handleMessage)
}

func (n *NetworkManager) handleDisconnect(conn MessageWriter) {
	clientID := n.ClientManager.GetClientIDByConn(conn)
	if clientID != 0 {
		n.ClientManager.DisconnectClient(clientID)
		log.Info("Client %d disconnected", clientID)
		return
	}

	log.Debug("Connection closed before login")
}

func (n *NetworkManager) handleMessage(ctx context.Context, conn MessageWriter, message *messages.Message) {
	switch message.Type {
	case messages.MessageTypeClientLogin:
		clientID, err := n.handleClientLogin(conn, message)
		if err != nil {
			log.Error("Failed to handle client login: %v", err)
			if err := n.sendServerLoginFailure(ctx, conn, err.Error()); err != nil {
				log.Error("Failed to send server login failure: %v", err)
			}
			return
		}
		log.Info("Client %d connected", clientID)
		if err := n.sendServerLoginSuccess(ctx, clientID); err != nil {
			log.Error("Failed to send server login success: %v", err)
		}
	case messages.MessageTypeClientPing:
		pong := &messages.Message{
			ClientID: 0,
			Type:     messages.MessageTypeServerPong,
		}
		if err := WriteMessageToWS(ctx, conn, pong); err != nil {
			log.Error("Failed to write pong message: %v", err)
		}
	default:
		// the connection, not the message, decides who is speaking
		clientID := n.ClientManager.GetClientIDByConn(conn)
		if clientID == 0 {
			log.Warn("Received %s message from a connection that is not logged in", message.Type)
			return
		}
		message.ClientID = clientID
		if err := n.MessageQueue.Enqueue(message); err != nil {
			log.Error("Failed to enqueue message: %v", err)
		}
	}
}

// handleClientLogin handles a client login message.
func (n *NetworkManager) handleClientLogin(conn MessageWriter, message *messages.Message) (uint32, error) {
	clientLogin := &messages.ClientLogin{}
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, clientLogin); err != nil {
			return 0, fmt.Errorf("failed to unmarshal client login: %v", err)
		}
	}

	identity := names.New()
	if name := strings.TrimSpace(clientLogin.Name); name != "" {
		if utf8.RuneCountInString(name) > MaxNameLength {
			return 0, fmt.Errorf("name is longer than %d characters", MaxNameLength)
		}
		identity.Name = name
	}

	clientID, err := n.ClientManager.ConnectClient(conn, identity)
	if err != nil {
		return 0, fmt.Errorf("failed to connect client: %v", err)
	}

	return clientID, nil
}

func (n *NetworkManager) sendServerLoginSuccess(ctx context.Context, clientID uint32) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %d: %v", clientID, err)
	}

	msg, err := messages.NewMessage(messages.MessageTypeServerLoginSuccess, &messages.ServerLoginSuccess{
		ClientID: clientID,
		PlayerID: client.PlayerID.String(),
		Name:     client.Name,
	})
	if err != nil {
		return err
	}

	if err := n.SendMessageToClient(ctx, clientID, msg); err != nil {
		return fmt.Errorf("failed to send server login success: %v", err)
	}

	return nil
}

func (n *NetworkManager) sendServerLoginFailure(ctx context.Context, conn MessageWriter, reason string) error {
	msg, err := messages.NewMessage(messages.MessageTypeServerLoginFailure, &messages.ServerLoginFailure{
		Reason: reason,
	})
	if err != nil {
		return err
	}

	if err := WriteMessageToWS(ctx, conn, msg); err != nil {
		return fmt.Errorf("failed to send server login failure: %v", err)
	}

	return nil
}

func (n *NetworkManager) SendMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %d: %v", clientID, err)
	}

	if err := WriteMessageToWS(ctx, client.Conn, msg); err != nil {
		return fmt.Errorf("failed to send message to client %d: %v", clientID, err)
	}

	return nil
}
