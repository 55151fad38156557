package network

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	mocks "github.com/cbodonnell/gametetris/mocks/github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/cbodonnell/gametetris/pkg/messages"
	"github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type fakeConn struct {
	mu     sync.Mutex
	writes []*messages.Message
}

func (c *fakeConn) Write(_ context.Context, _ websocket.MessageType, p []byte) error {
	msg, err := messages.DeserializeMessage(p)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, msg)
	return nil
}

func (c *fakeConn) last(t *testing.T) *messages.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.writes)
	return c.writes[len(c.writes)-1]
}

func login(t *testing.T, n *NetworkManager, conn *fakeConn, name string) *messages.ServerLoginSuccess {
	t.Helper()
	payload, err := json.Marshal(&messages.ClientLogin{Name: name})
	require.NoError(t, err)
	n.handleMessage(context.Background(), conn, &messages.Message{Type: messages.MessageTypeClientLogin, Payload: payload})

	reply := conn.last(t)
	require.Equal(t, messages.MessageTypeServerLoginSuccess, reply.Type)
	success := &messages.ServerLoginSuccess{}
	require.NoError(t, json.Unmarshal(reply.Payload, success))
	return success
}

func TestNetworkManager_login(t *testing.T) {
	cm := NewClientManager()
	n := &NetworkManager{ClientManager: cm, MessageQueue: mocks.NewQueue(t)}
	conn := &fakeConn{}

	success := login(t, n, conn, "  jolly-yak ")
	assert.NotZero(t, success.ClientID)
	assert.Equal(t, "jolly-yak", success.Name)
	assert.NotEmpty(t, success.PlayerID)
	assert.True(t, cm.Exists(success.ClientID))
	assert.Equal(t, success.ClientID, cm.GetClientIDByConn(conn))

	event := <-cm.GetConnectionEventChan()
	assert.Equal(t, ConnectionEventTypeConnect, event.Type)
	assert.Equal(t, success.ClientID, event.ClientID)
	data, ok := event.Data.(ClientConnectData)
	require.True(t, ok)
	assert.Equal(t, "jolly-yak", data.Name)
}

func TestNetworkManager_loginGeneratesName(t *testing.T) {
	n := &NetworkManager{ClientManager: NewClientManager(), MessageQueue: mocks.NewQueue(t)}
	success := login(t, n, &fakeConn{}, "")
	assert.Contains(t, success.Name, "-")
}

func TestNetworkManager_loginFailures(t *testing.T) {
	n := &NetworkManager{ClientManager: NewClientManager(), MessageQueue: mocks.NewQueue(t)}
	conn := &fakeConn{}
	login(t, n, conn, "first")

	payload, _ := json.Marshal(&messages.ClientLogin{Name: "again"})
	n.handleMessage(context.Background(), conn, &messages.Message{Type: messages.MessageTypeClientLogin, Payload: payload})
	assert.Equal(t, messages.MessageTypeServerLoginFailure, conn.last(t).Type)

	other := &fakeConn{}
	payload, _ = json.Marshal(&messages.ClientLogin{Name: strings.Repeat("x", MaxNameLength+1)})
	n.handleMessage(context.Background(), other, &messages.Message{Type: messages.MessageTypeClientLogin, Payload: payload})
	assert.Equal(t, messages.MessageTypeServerLoginFailure, other.last(t).Type)
	assert.Zero(t, n.ClientManager.GetClientIDByConn(other))
}

func TestNetworkManager_routesMessagesFromLoggedInClients(t *testing.T) {
	mockQueue := mocks.NewQueue(t)
	n := &NetworkManager{ClientManager: NewClientManager(), MessageQueue: mockQueue}

	// not logged in: dropped without touching the queue
	stranger := &fakeConn{}
	n.handleMessage(context.Background(), stranger, &messages.Message{ClientID: 99, Type: messages.MessageTypeClientStep})

	conn := &fakeConn{}
	success := login(t, n, conn, "p1")
	mockQueue.EXPECT().Enqueue(mock.MatchedBy(func(item interface{}) bool {
		msg, ok := item.(*messages.Message)
		return ok && msg.ClientID == success.ClientID && msg.Type == messages.MessageTypeClientAction
	})).Return(nil).Once()

	// a spoofed client ID is replaced by the connection's
	n.handleMessage(context.Background(), conn, &messages.Message{ClientID: 12345, Type: messages.MessageTypeClientAction})
}

func TestNetworkManager_ping(t *testing.T) {
	n := &NetworkManager{ClientManager: NewClientManager(), MessageQueue: mocks.NewQueue(t)}
	conn := &fakeConn{}
	n.handleMessage(context.Background(), conn, &messages.Message{Type: messages.MessageTypeClientPing})
	assert.Equal(t, messages.MessageTypeServerPong, conn.last(t).Type)
}

func TestNetworkManager_disconnect(t *testing.T) {
	cm := NewClientManager()
	n := &NetworkManager{ClientManager: cm, MessageQueue: mocks.NewQueue(t)}
	conn := &fakeConn{}
	success := login(t, n, conn, "p1")
	<-cm.GetConnectionEventChan()

	n.handleDisconnect(conn)
	assert.False(t, cm.Exists(success.ClientID))
	assert.Zero(t, cm.GetClientIDByConn(conn))
	event := <-cm.GetConnectionEventChan()
	assert.Equal(t, ConnectionEventTypeDisconnect, event.Type)

	// unknown connections are ignored
	n.handleDisconnect(&fakeConn{})
	assert.Empty(t, cm.GetClients())
}

func TestWSServer_endToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inbox := queue.NewInMemoryQueue(16)
	n := &NetworkManager{ClientManager: NewClientManager(), MessageQueue: inbox, WSServer: NewWSServer(NewWSServerOptions{})}
	srv := httptest.NewServer(n.WSServer.Handler(ctx, n.handleDisconnect, n.handleMessage))
	defer srv.Close()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	payload, _ := json.Marshal(&messages.ClientLogin{Name: "remote"})
	require.NoError(t, WriteMessageToWS(ctx, conn, &messages.Message{Type: messages.MessageTypeClientLogin, Payload: payload}))
	reply, err := ReadMessageFromWS(ctx, conn)
	require.NoError(t, err)
	require.Equal(t, messages.MessageTypeServerLoginSuccess, reply.Type)

	action, _ := json.Marshal(&messages.ClientAction{Action: "drop"})
	require.NoError(t, WriteMessageToWS(ctx, conn, &messages.Message{Type: messages.MessageTypeClientAction, Payload: action}))

	assert.Eventually(t, func() bool { return inbox.Size() == 1 }, 5*time.Second, 10*time.Millisecond)
	item, err := inbox.Dequeue()
	require.NoError(t, err)
	msg := item.(*messages.Message)
	assert.Equal(t, messages.MessageTypeClientAction, msg.Type)
	assert.NotZero(t, msg.ClientID)
}
