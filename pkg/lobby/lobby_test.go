package lobby

import (
	"context"
	"fmt"
	"testing"

	mocks "github.com/cbodonnell/gametetris/mocks/github.com/cbodonnell/gametetris/pkg/repositories"
	"github.com/cbodonnell/gametetris/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPlayer(n uint32) Player {
	return Player{
		ClientID: n,
		PlayerID: uuid.New(),
		Name:     fmt.Sprintf("player-%d", n),
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("match-%d", n)
	}
}

func TestLobby_pairsInArrivalOrder(t *testing.T) {
	ctx := context.Background()
	mockRepository := mocks.NewRepository(t)
	l := NewLobby(NewLobbyOptions{Repository: mockRepository, NewMatchID: sequentialIDs()})

	players := []Player{testPlayer(1), testPlayer(2), testPlayer(3)}
	for _, p := range players {
		mockRepository.EXPECT().SavePlayer(ctx, mock.MatchedBy(func(m *models.Player) bool {
			return m.ID == p.PlayerID.String() && m.Status == models.PlayerStatusWaiting && m.ClientID == p.ClientID
		})).Return(nil).Once()
		l.Join(ctx, p)
	}
	assert.Equal(t, 3, l.Waiting())

	mockRepository.EXPECT().SetPlayerStatus(ctx, players[0].PlayerID.String(), models.PlayerStatusPlaying, "match-1").Return(nil).Once()
	mockRepository.EXPECT().SetPlayerStatus(ctx, players[1].PlayerID.String(), models.PlayerStatusPlaying, "match-1").Return(nil).Once()

	pairings := l.Pair(ctx)
	require.Len(t, pairings, 1)
	assert.Equal(t, "match-1", pairings[0].MatchID)
	assert.Equal(t, players[0], pairings[0].A)
	assert.Equal(t, players[1], pairings[0].B)
	assert.Equal(t, 1, l.Waiting())

	assert.Empty(t, l.Pair(ctx), "one player cannot be paired")
}

func TestLobby_joinTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	mockRepository := mocks.NewRepository(t)
	l := NewLobby(NewLobbyOptions{Repository: mockRepository})

	p := testPlayer(1)
	mockRepository.EXPECT().SavePlayer(ctx, mock.Anything).Return(nil).Once()
	l.Join(ctx, p)
	l.Join(ctx, p)
	assert.Equal(t, 1, l.Waiting())
}

func TestLobby_leave(t *testing.T) {
	ctx := context.Background()
	mockRepository := mocks.NewRepository(t)
	l := NewLobby(NewLobbyOptions{Repository: mockRepository})

	p1, p2 := testPlayer(1), testPlayer(2)
	mockRepository.EXPECT().SavePlayer(ctx, mock.Anything).Return(nil).Once()
	l.Join(ctx, p1)

	mockRepository.EXPECT().DeletePlayer(ctx, p1.PlayerID.String()).Return(nil).Once()
	assert.True(t, l.Leave(ctx, p1))
	assert.Equal(t, 0, l.Waiting())

	// players in a match are only unregistered
	mockRepository.EXPECT().DeletePlayer(ctx, p2.PlayerID.String()).Return(nil).Once()
	assert.False(t, l.Leave(ctx, p2))
}

func TestLobby_registryErrorsDoNotBlockPairing(t *testing.T) {
	ctx := context.Background()
	mockRepository := mocks.NewRepository(t)
	l := NewLobby(NewLobbyOptions{Repository: mockRepository})

	mockRepository.EXPECT().SavePlayer(ctx, mock.Anything).Return(assert.AnError).Twice()
	mockRepository.EXPECT().SetPlayerStatus(ctx, mock.Anything, models.PlayerStatusPlaying, mock.Anything).Return(assert.AnError).Twice()

	l.Join(ctx, testPlayer(1))
	l.Join(ctx, testPlayer(2))
	pairings := l.Pair(ctx)
	require.Len(t, pairings, 1)
	assert.NotEmpty(t, pairings[0].MatchID)
}
