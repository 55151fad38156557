package types

import "github.com/google/uuid"

// ConnectPlayerEvent is queued for the game loop when a client logs in.
type ConnectPlayerEvent struct {
	ClientID uint32
	PlayerID uuid.UUID
	Name     string
}

// DisconnectPlayerEvent is queued for the game loop when a client goes away.
type DisconnectPlayerEvent struct {
	ClientID uint32
	PlayerID uuid.UUID
}
