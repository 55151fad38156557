package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mocks "github.com/cbodonnell/gametetris/mocks/github.com/cbodonnell/gametetris/pkg/repositories"
	"github.com/cbodonnell/gametetris/pkg/api/handlers"
	"github.com/cbodonnell/gametetris/pkg/repositories/models"
	"github.com/cbodonnell/gametetris/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_healthz(t *testing.T) {
	r := NewRouter(NewAPIServerOptions{Repository: mocks.NewRepository(t), StateManager: state.NewInMemoryStateManager(), Token: "secret"})

	rec := do(t, r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	body := map[string]string{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_listPlayers(t *testing.T) {
	mockRepository := mocks.NewRepository(t)
	r := NewRouter(NewAPIServerOptions{Repository: mockRepository, StateManager: state.NewInMemoryStateManager()})

	mockRepository.EXPECT().ListPlayers(mock.Anything, models.PlayerStatusWaiting).Return([]*models.Player{
		{ID: "p1", Name: "amber-badger", ClientID: 3, Status: models.PlayerStatusWaiting},
	}, nil).Once()
	rec := do(t, r, http.MethodGet, "/players?status=waiting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var players []*models.Player
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&players))
	require.Len(t, players, 1)
	assert.Equal(t, "amber-badger", players[0].Name)

	mockRepository.EXPECT().ListPlayers(mock.Anything, models.PlayerStatus("")).Return(nil, nil).Once()
	rec = do(t, r, http.MethodGet, "/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/players?status=sleeping", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockRepository.EXPECT().ListPlayers(mock.Anything, models.PlayerStatusPlaying).Return(nil, errors.New("closed")).Once()
	rec = do(t, r, http.MethodGet, "/players?status=playing", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_matches(t *testing.T) {
	ctx := context.Background()
	states := state.NewInMemoryStateManager()
	require.NoError(t, states.Set(ctx, &state.MatchState{MatchID: "m1", Tick: 9, PlayerA: "a", PlayerB: "b", UpdatedAt: time.Now()}))
	require.NoError(t, states.Set(ctx, &state.MatchState{MatchID: "m2", GameOver: true, Winner: "c", PlayerA: "c", PlayerB: "d"}))
	r := NewRouter(NewAPIServerOptions{Repository: mocks.NewRepository(t), StateManager: states})

	rec := do(t, r, http.MethodGet, "/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []handlers.MatchSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
	assert.Equal(t, []handlers.MatchSummary{
		{MatchID: "m1", Tick: 9, PlayerA: "a", PlayerB: "b"},
		{MatchID: "m2", PlayerA: "c", PlayerB: "d", GameOver: true, Winner: "c"},
	}, summaries)

	rec = do(t, r, http.MethodGet, "/matches/m1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := &state.MatchState{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(got))
	assert.Equal(t, "m1", got.MatchID)
	assert.Equal(t, uint64(9), got.Tick)

	rec = do(t, r, http.MethodGet, "/matches/nope/state", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/matches", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_token(t *testing.T) {
	r := NewRouter(NewAPIServerOptions{Repository: mocks.NewRepository(t), StateManager: state.NewInMemoryStateManager(), Token: "secret"})

	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/matches", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/matches", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/matches", "secret").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodOptions, "/matches", "").Code, "preflight needs no token")
}
