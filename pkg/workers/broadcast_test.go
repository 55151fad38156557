package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/pair"
	"github.com/cbodonnell/gametetris/pkg/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	clientID uint32
	msg      *messages.Message
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sent
	fail map[uint32]bool
}

func (s *fakeSender) SendMessageToClient(_ context.Context, clientID uint32, msg *messages.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[clientID] {
		return errors.New("client not found")
	}
	s.sent = append(s.sent, sent{clientID: clientID, msg: msg})
	return nil
}

func (s *fakeSender) all() []sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sent(nil), s.sent...)
}

func TestBroadcastMessageWorker_handleJSON(t *testing.T) {
	sender := &fakeSender{fail: map[uint32]bool{3: true}}
	w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{Sender: sender})

	err := w.handle(context.Background(), BroadcastMessage{
		ClientIDs: []uint32{1, 3, 2},
		Type:      messages.MessageTypeServerGameOver,
		Message:   &messages.ServerGameOver{MatchID: "m", Result: messages.GameResultWin},
	})
	require.NoError(t, err)

	got := sender.all()
	require.Len(t, got, 2, "a failed client does not stop the others")
	assert.Equal(t, uint32(1), got[0].clientID)
	assert.Equal(t, uint32(2), got[1].clientID)
	assert.Equal(t, messages.MessageTypeServerGameOver, got[0].msg.Type)
	assert.JSONEq(t, `{"matchID":"m","result":"win"}`, string(got[0].msg.Payload))
}

func TestBroadcastMessageWorker_handlePairState(t *testing.T) {
	sender := &fakeSender{}
	w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{Sender: sender})

	p, err := pair.New(pair.Options{NameA: "a", NameB: "b", Cols: 6, Rows: 8, Seed: 3})
	require.NoError(t, err)
	p.Step()
	state := &messages.ServerPairState{MatchID: "m", Tick: 1, State: p.Snapshot(pair.SideA)}

	require.NoError(t, w.handle(context.Background(), BroadcastMessage{
		ClientIDs: []uint32{7},
		Type:      messages.MessageTypeServerPairState,
		Message:   state,
	}))

	got := sender.all()
	require.Len(t, got, 1)
	decoded, err := messages.DeserializePairState(got[0].msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, "m", decoded.MatchID)
	assert.True(t, state.State.Player.Equal(decoded.State.Player))
	assert.True(t, state.State.Opponent.Equal(decoded.State.Opponent))
}

func TestBroadcastMessageWorker_handleErrors(t *testing.T) {
	w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{Sender: &fakeSender{}})
	ctx := context.Background()

	assert.Error(t, w.handle(ctx, BroadcastMessage{Type: messages.MessageTypeServerPairState, Message: &messages.ServerThrottle{}}))
	assert.Error(t, w.handle(ctx, BroadcastMessage{Type: messages.MessageTypeClientAction, Message: &messages.ClientAction{}}))
	assert.Error(t, w.handle(ctx, BroadcastMessage{
		Type:    messages.MessageTypeServerPairState,
		Message: &messages.ServerPairState{State: &pair.PairSnapshot{Player: &tetris.Snapshot{}}},
	}))
}

func TestBroadcastMessageWorker_Start(t *testing.T) {
	sender := &fakeSender{}
	ch := make(chan BroadcastMessage, 1)
	w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{Sender: sender, BroadcastMessageChan: ch})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	ch <- BroadcastMessage{ClientIDs: []uint32{4}, Type: messages.MessageTypeServerThrottle, Message: &messages.ServerThrottle{Divergence: 5}}
	assert.Eventually(t, func() bool { return len(sender.all()) == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
