package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/repositories"
	"github.com/cbodonnell/gametetris/pkg/repositories/models"
	"github.com/cbodonnell/gametetris/pkg/state"
	"github.com/cbodonnell/gametetris/pkg/version"
	"github.com/gorilla/mux"
)

// MatchSummary is a match without its boards.
type MatchSummary struct {
	MatchID  string `json:"match_id"`
	Tick     uint64 `json:"tick"`
	PlayerA  string `json:"player_a"`
	PlayerB  string `json:"player_b"`
	GameOver bool   `json:"game_over"`
	Winner   string `json:"winner,omitempty"`
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"status":  "ok",
			"version": version.Get(),
		})
	}
}

func HandleListPlayers(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.PlayerStatus(r.URL.Query().Get("status"))
		switch status {
		case "", models.PlayerStatusWaiting, models.PlayerStatusPlaying:
		default:
			http.Error(w, "Unknown player status", http.StatusBadRequest)
			return
		}

		players, err := repository.ListPlayers(r.Context(), status)
		if err != nil {
			log.Error("failed to list players: %v", err)
			http.Error(w, "Failed to list players", http.StatusInternalServerError)
			return
		}
		if players == nil {
			players = []*models.Player{}
		}
		writeJSON(w, players)
	}
}

func HandleListMatches(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states, err := stateManager.List(r.Context())
		if err != nil {
			log.Error("failed to list matches: %v", err)
			http.Error(w, "Failed to list matches", http.StatusInternalServerError)
			return
		}

		summaries := make([]MatchSummary, 0, len(states))
		for _, s := range states {
			summaries = append(summaries, MatchSummary{
				MatchID:  s.MatchID,
				Tick:     s.Tick,
				PlayerA:  s.PlayerA,
				PlayerB:  s.PlayerB,
				GameOver: s.GameOver,
				Winner:   s.Winner,
			})
		}
		writeJSON(w, summaries)
	}
}

func HandleGetMatchState(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := mux.Vars(r)["matchID"]
		matchState, err := stateManager.Get(r.Context(), matchID)
		if err != nil {
			if errors.Is(err, state.ErrNotFound) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get match %s: %v", matchID, err)
			http.Error(w, "Failed to get match", http.StatusInternalServerError)
			return
		}
		writeJSON(w, matchState)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
