package messages

import (
	"encoding/json"
	"testing"

	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	action, err := json.Marshal(&ClientAction{Action: "rotate_right"})
	require.NoError(t, err)

	tests := []struct {
		name string
		msg  *Message
	}{
		{
			name: "client action",
			msg: &Message{
				ClientID: 42,
				Type:     MessageTypeClientAction,
				Payload:  action,
			},
		},
		{
			name: "empty payload",
			msg: &Message{
				ClientID: 7,
				Type:     MessageTypeClientStep,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := SerializeMessage(tt.msg)
			require.NoError(t, err)

			got, err := DeserializeMessage(b)
			require.NoError(t, err)
			assert.Equal(t, tt.msg.ClientID, got.ClientID)
			assert.Equal(t, tt.msg.Type, got.Type)
			assert.Equal(t, len(tt.msg.Payload), len(got.Payload))
			if len(tt.msg.Payload) > 0 {
				assert.JSONEq(t, string(tt.msg.Payload), string(got.Payload))
			}
		})
	}
}

func TestDeserializeMessage_garbage(t *testing.T) {
	_, err := DeserializeMessage([]byte("definitely not zstd"))
	assert.Error(t, err)

	_, err = DeserializeMessageFlatbuffer([]byte{1})
	assert.Error(t, err)
}

func TestSerializeDeserializePairState(t *testing.T) {
	p, err := pair.New(pair.Options{NameA: "amber-otter", NameB: "quiet-heron", Cols: 10, Rows: 20, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, p.SetLineRemoveSpeed(1, 1))
	for i := 0; i < 5; i++ {
		p.Step()
	}

	state := &ServerPairState{
		MatchID:    "match-1",
		Tick:       5,
		Divergence: 2,
		State:      p.Snapshot(pair.SideB),
	}
	b, err := SerializePairState(state)
	require.NoError(t, err)

	got, err := DeserializePairState(b)
	require.NoError(t, err)
	assert.Equal(t, "match-1", got.MatchID)
	assert.Equal(t, uint64(5), got.Tick)
	assert.Equal(t, 2, got.Divergence)
	assert.True(t, state.State.Player.Equal(got.State.Player))
	assert.True(t, state.State.Opponent.Equal(got.State.Opponent))
	assert.Equal(t, "quiet-heron", got.State.Player.Name)
}

func TestSerializePairState_incomplete(t *testing.T) {
	_, err := SerializePairState(&ServerPairState{State: &pair.PairSnapshot{}})
	assert.Error(t, err)
}

func TestUnflattenGrid(t *testing.T) {
	g, err := unflattenGrid([]byte{0, 1, 2, 8}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, tetris.Grid{{tetris.CellEmpty, tetris.CellBlasted}, {tetris.CellI, tetris.CellZ}}, g)
	assert.Equal(t, []byte{0, 1, 2, 8}, flattenGrid(g))

	_, err = unflattenGrid([]byte{0, 1, 2}, 2, 2)
	assert.Error(t, err)
	_, err = unflattenGrid([]byte{0, 1, 2, 9}, 2, 2)
	assert.Error(t, err)
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeServerThrottle, &ServerThrottle{Divergence: 4})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), msg.ClientID)
	assert.JSONEq(t, `{"divergence":4}`, string(msg.Payload))

	msg, err = NewMessage(MessageTypeServerPong, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)
}

func TestMessageType_String(t *testing.T) {
	assert.Equal(t, "ClientAction", MessageTypeClientAction.String())
	assert.Equal(t, "Unknown(200)", MessageType(200).String())
}
