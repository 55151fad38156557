package workers

import (
	"context"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/network"
	"github.com/cbodonnell/gametetris/pkg/queue"
	sessiontypes "github.com/cbodonnell/gametetris/pkg/session/types"
)

type ConnectionEventWorker struct {
	connectionEventChan <-chan network.ConnectionEvent
	serverEventQueue    queue.Queue
}

type NewConnectionEventWorkerOptions struct {
	ConnectionEventChan <-chan network.ConnectionEvent
	ServerEventQueue    queue.Queue
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker processes client events like connect and disconnect
// and writes server events to a queue for the game loop to process.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		connectionEventChan: opts.ConnectionEventChan,
		serverEventQueue:    opts.ServerEventQueue,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.connectionEventChan:
			switch event.Type {
			case network.ConnectionEventTypeConnect:
				w.handleClientConnect(event)
			case network.ConnectionEventTypeDisconnect:
				w.handleClientDisconnect(event)
			default:
				log.Error("Unknown client event type: %v", event.Type)
			}
		}
	}
}

func (w *ConnectionEventWorker) handleClientConnect(event network.ConnectionEvent) {
	data, ok := event.Data.(network.ClientConnectData)
	if !ok {
		log.Error("Failed to cast client connect data")
		return
	}

	if err := w.serverEventQueue.Enqueue(&sessiontypes.ConnectPlayerEvent{
		ClientID: event.ClientID,
		PlayerID: data.PlayerID,
		Name:     data.Name,
	}); err != nil {
		log.Error("Failed to enqueue connect player event: %v", err)
	}
}

func (w *ConnectionEventWorker) handleClientDisconnect(event network.ConnectionEvent) {
	data, ok := event.Data.(network.ClientDisconnectData)
	if !ok {
		log.Error("Failed to cast client disconnect data")
		return
	}

	if err := w.serverEventQueue.Enqueue(&sessiontypes.DisconnectPlayerEvent{
		ClientID: event.ClientID,
		PlayerID: data.PlayerID,
	}); err != nil {
		log.Error("Failed to enqueue disconnect player event: %v", err)
	}
}
