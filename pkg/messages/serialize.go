package messages

import (
	"bytes"
	"fmt"
	"io"

	messagefb "github.com/cbodonnell/gametetris/flatbuffers/message"
	snapshotfb "github.com/cbodonnell/gametetris/flatbuffers/snapshot"
	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/tetris"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress message: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)

	payload := builder.CreateByteVector(m.Payload)

	messagefb.MessageStart(builder)
	messagefb.MessageAddClientId(builder, m.ClientID)
	messagefb.MessageAddType(builder, byte(m.Type))
	messagefb.MessageAddPayload(builder, payload)
	messageOffset := messagefb.MessageEnd(builder)
	builder.Finish(messageOffset)
	b := builder.FinishedBytes()

	return b, nil
}

func DeserializeMessageFlatbuffer(b []byte) (m *Message, err error) {
	// the generated accessors index into b without bounds checks
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("malformed message: %v", r)
		}
	}()
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("message too short: %d bytes", len(b))
	}

	message := &Message{}
	messageFlatbuffer := messagefb.GetRootAsMessage(b, 0)
	message.ClientID = messageFlatbuffer.ClientId()
	message.Type = MessageType(messageFlatbuffer.Type())
	message.Payload = messageFlatbuffer.PayloadBytes()

	return message, nil
}

func SerializePairState(state *ServerPairState) ([]byte, error) {
	if state.State == nil || state.State.Player == nil || state.State.Opponent == nil {
		return nil, fmt.Errorf("pair state is incomplete")
	}
	builder := flatbuffers.NewBuilder(0)
	pairState := SerializePairStateFlatbuffer(builder, state)
	builder.Finish(pairState)
	return builder.FinishedBytes(), nil
}

func DeserializePairState(b []byte) (*ServerPairState, error) {
	pairState, err := DeserializePairStateFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize pair state: %v", err)
	}

	return pairState, nil
}

func SerializePairStateFlatbuffer(builder *flatbuffers.Builder, state *ServerPairState) flatbuffers.UOffsetT {
	player := SerializeBoardFlatbuffer(builder, state.State.Player)
	opponent := SerializeBoardFlatbuffer(builder, state.State.Opponent)
	matchID := builder.CreateString(state.MatchID)

	snapshotfb.PairStateStart(builder)
	snapshotfb.PairStateAddMatchId(builder, matchID)
	snapshotfb.PairStateAddTick(builder, state.Tick)
	snapshotfb.PairStateAddDivergence(builder, int32(state.Divergence))
	snapshotfb.PairStateAddPlayer(builder, player)
	snapshotfb.PairStateAddOpponent(builder, opponent)
	return snapshotfb.PairStateEnd(builder)
}

func SerializeBoardFlatbuffer(builder *flatbuffers.Builder, s *tetris.Snapshot) flatbuffers.UOffsetT {
	name := builder.CreateString(s.Name)
	field := builder.CreateByteVector(flattenGrid(s.Field))
	preview := builder.CreateByteVector(flattenGrid(s.Preview))

	snapshotfb.BoardStart(builder)
	snapshotfb.BoardAddName(builder, name)
	snapshotfb.BoardAddCols(builder, int32(s.Cols))
	snapshotfb.BoardAddRows(builder, int32(s.Rows))
	snapshotfb.BoardAddField(builder, field)
	snapshotfb.BoardAddPreview(builder, preview)
	snapshotfb.BoardAddGameOver(builder, s.GameOver)
	return snapshotfb.BoardEnd(builder)
}

func DeserializePairStateFlatbuffer(b []byte) (state *ServerPairState, err error) {
	defer func() {
		if r := recover(); r != nil {
			state, err = nil, fmt.Errorf("malformed pair state: %v", r)
		}
	}()
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("pair state too short: %d bytes", len(b))
	}

	fb := snapshotfb.GetRootAsPairState(b, 0)
	player := fb.Player(nil)
	opponent := fb.Opponent(nil)
	if player == nil || opponent == nil {
		return nil, fmt.Errorf("pair state is missing a board")
	}

	playerSnapshot, err := BoardFlatbufferToSnapshot(player)
	if err != nil {
		return nil, fmt.Errorf("failed to read player board: %v", err)
	}
	opponentSnapshot, err := BoardFlatbufferToSnapshot(opponent)
	if err != nil {
		return nil, fmt.Errorf("failed to read opponent board: %v", err)
	}

	return &ServerPairState{
		MatchID:    string(fb.MatchId()),
		Tick:       fb.Tick(),
		Divergence: int(fb.Divergence()),
		State: &pair.PairSnapshot{
			Player:   playerSnapshot,
			Opponent: opponentSnapshot,
		},
	}, nil
}

func BoardFlatbufferToSnapshot(fb *snapshotfb.Board) (*tetris.Snapshot, error) {
	cols, rows := int(fb.Cols()), int(fb.Rows())
	field, err := unflattenGrid(fb.FieldBytes(), cols, rows)
	if err != nil {
		return nil, fmt.Errorf("invalid field: %v", err)
	}
	preview, err := unflattenGrid(fb.PreviewBytes(), tetris.PreviewSize, tetris.PreviewSize)
	if err != nil {
		return nil, fmt.Errorf("invalid preview: %v", err)
	}

	return &tetris.Snapshot{
		Name:     string(fb.Name()),
		Cols:     cols,
		Rows:     rows,
		Field:    field,
		Preview:  preview,
		GameOver: fb.GameOver(),
	}, nil
}

func flattenGrid(g tetris.Grid) []byte {
	b := make([]byte, 0, g.Rows()*g.Cols())
	for _, row := range g {
		for _, c := range row {
			b = append(b, byte(c))
		}
	}
	return b
}

func unflattenGrid(b []byte, cols, rows int) (tetris.Grid, error) {
	if cols < 0 || rows < 0 || len(b) != cols*rows {
		return nil, fmt.Errorf("have %d cells for a %dx%d grid", len(b), cols, rows)
	}
	g := tetris.NewGrid(cols, rows)
	for y := range g {
		for x := range g[y] {
			c := tetris.CellType(b[y*cols+x])
			if c > tetris.CellZ {
				return nil, fmt.Errorf("cell value %d out of range", c)
			}
			g[y][x] = c
		}
	}
	return g, nil
}
