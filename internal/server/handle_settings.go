package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type UpdateTotalRoundsRequest struct {
	TotalRounds int `json:"totalRounds"`
}

func handleUpdateTotalRounds(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		var req UpdateTotalRoundsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := store.UpdateTotalRounds(r.Context(), gameID, req.TotalRounds); err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventRoundsChanged})
		writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

type HideScoresRequest struct {
	HideScores bool `json:"hideScores"`
}

func handleHideScores(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		var req HideScoresRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := store.ToggleHideScores(r.Context(), gameID, req.HideScores); err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventGameUpdated})
		writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

type UpdateTagRequest struct {
	Tag *string `json:"tag"`
}

func handleUpdateTag(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		var req UpdateTagRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := store.UpdateTag(r.Context(), gameID, req.Tag); err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventGameUpdated})
		writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

// handleSyncProgress recomputes roundsPlayed from stored scores. Normally
// progress tracks writes automatically; this exists for recovery after
// manual database edits.
func handleSyncProgress(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if err := store.SyncProgress(r.Context(), gameID); err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventGameUpdated})
		writeJSON(w, http.StatusOK, map[string]bool{"synced": true})
	}
}
