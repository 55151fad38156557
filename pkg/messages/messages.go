package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/gametetris/pkg/pair"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 8192
)

// MessageType identifies the payload carried by a Message.
type MessageType byte

// Message types
const (
	MessageTypeUnknown MessageType = iota
	MessageTypeClientPing
	MessageTypeServerPong
	MessageTypeClientLogin
	MessageTypeServerLoginSuccess
	MessageTypeServerLoginFailure
	MessageTypeClientAction
	MessageTypeClientStep
	MessageTypeServerMatchStart
	MessageTypeServerPairState
	MessageTypeServerThrottle
	MessageTypeServerGameOver
	MessageTypeServerOpponentLeft
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeClientPing:
		return "ClientPing"
	case MessageTypeServerPong:
		return "ServerPong"
	case MessageTypeClientLogin:
		return "ClientLogin"
	case MessageTypeServerLoginSuccess:
		return "ServerLoginSuccess"
	case MessageTypeServerLoginFailure:
		return "ServerLoginFailure"
	case MessageTypeClientAction:
		return "ClientAction"
	case MessageTypeClientStep:
		return "ClientStep"
	case MessageTypeServerMatchStart:
		return "ServerMatchStart"
	case MessageTypeServerPairState:
		return "ServerPairState"
	case MessageTypeServerThrottle:
		return "ServerThrottle"
	case MessageTypeServerGameOver:
		return "ServerGameOver"
	case MessageTypeServerOpponentLeft:
		return "ServerOpponentLeft"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(m))
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID uint32          `json:"clientID"`
	Type     MessageType     `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// NewMessage builds a server message (ClientID 0) with a JSON payload.
func NewMessage(t MessageType, payload interface{}) (*Message, error) {
	var b []byte
	if payload != nil {
		var err error
		b, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %v", t, err)
		}
	}
	return &Message{
		ClientID: 0,
		Type:     t,
		Payload:  b,
	}, nil
}

// ClientLogin asks the server for a client ID. Name is optional; the server
// generates one when it is empty.
type ClientLogin struct {
	Name string `json:"name"`
}

type ServerLoginSuccess struct {
	ClientID uint32 `json:"clientID"`
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

type ServerLoginFailure struct {
	Reason string `json:"reason"`
}

// ClientAction carries a player action by name, e.g. "move_left".
type ClientAction struct {
	Action string `json:"action"`
}

// ServerMatchStart tells a client it has been paired.
type ServerMatchStart struct {
	MatchID  string `json:"matchID"`
	Opponent string `json:"opponent"`
	Cols     int    `json:"cols"`
	Rows     int    `json:"rows"`
	// RateMatched is set when the client must send ClientStep to advance.
	RateMatched bool `json:"rateMatched"`
}

// ServerPairState is the state of a match from one player's side.
type ServerPairState struct {
	MatchID    string
	Tick       uint64
	Divergence int
	State      *pair.PairSnapshot
}

// ServerThrottle warns a client that it is running ahead of its opponent.
type ServerThrottle struct {
	Divergence int `json:"divergence"`
}

// GameResult is the outcome of a match from one player's side.
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLose GameResult = "lose"
	GameResultDraw GameResult = "draw"
)

type ServerGameOver struct {
	MatchID string     `json:"matchID"`
	Result  GameResult `json:"result"`
}

type ServerOpponentLeft struct {
	MatchID string `json:"matchID"`
}
