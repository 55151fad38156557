package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/messages"
)

// MessageSender delivers a message to one client.
type MessageSender interface {
	SendMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error
}

type BroadcastMessageWorker struct {
	sender               MessageSender
	broadcastMessageChan <-chan BroadcastMessage
}

// BroadcastMessage is a server message for a set of clients. Message holds
// the typed payload for Type.
type BroadcastMessage struct {
	ClientIDs []uint32
	Type      messages.MessageType
	Message   interface{}
}

type NewBroadcastMessageWorkerOptions struct {
	Sender               MessageSender
	BroadcastMessageChan <-chan BroadcastMessage
}

func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		sender:               opts.Sender,
		broadcastMessageChan: opts.BroadcastMessageChan,
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.broadcastMessageChan:
			if err := w.handle(ctx, msg); err != nil {
				log.Error("Failed to handle %s broadcast: %v", msg.Type, err)
			}
		}
	}
}

func (w *BroadcastMessageWorker) handle(ctx context.Context, b BroadcastMessage) error {
	payload, err := encodePayload(b)
	if err != nil {
		return err
	}

	msg := &messages.Message{
		ClientID: 0,
		Type:     b.Type,
		Payload:  payload,
	}
	for _, clientID := range b.ClientIDs {
		if err := w.sender.SendMessageToClient(ctx, clientID, msg); err != nil {
			log.Warn("Failed to send %s to client %d: %v", b.Type, clientID, err)
		}
	}

	return nil
}

func encodePayload(b BroadcastMessage) ([]byte, error) {
	switch b.Type {
	case messages.MessageTypeServerPairState:
		pairState, ok := b.Message.(*messages.ServerPairState)
		if !ok {
			return nil, fmt.Errorf("failed to cast server pair state message")
		}
		payload, err := messages.SerializePairState(pairState)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize pair state: %v", err)
		}
		return payload, nil
	case messages.MessageTypeServerMatchStart,
		messages.MessageTypeServerThrottle,
		messages.MessageTypeServerGameOver,
		messages.MessageTypeServerOpponentLeft:
		payload, err := json.Marshal(b.Message)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s message: %v", b.Type, err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("unknown server message type: %v", b.Type)
	}
}
