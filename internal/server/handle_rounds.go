package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleListRounds(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rounds, err := store.ListRounds(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	}
}

func handleListRoundScores(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := store.ListRoundScores(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "roundID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}

// SetScoreRequest carries a player's points for one round. A null points
// value clears the cell.
type SetScoreRequest struct {
	Points *int `json:"points"`
}

func handleSetScore(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		roundID := chi.URLParam(r, "roundID")
		playerID := chi.URLParam(r, "playerID")

		var req SetScoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := store.SetScore(r.Context(), gameID, roundID, playerID, req.Points); err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventScoreSet, RoundID: roundID, PlayerID: playerID})
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	}
}
