package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hsufamily/scorepad/internal/scores"
)

type CloseGameRequest struct {
	Status scores.Status `json:"status"`
}

// handleCloseGame ends a game. Completed games get ranked results and a
// reconciled round log; abandoned games are just stamped and shelved.
func handleCloseGame(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		var req CloseGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		switch req.Status {
		case scores.StatusCompleted, scores.StatusAbandoned:
		default:
			writeError(w, http.StatusBadRequest, "status must be completed or abandoned")
			return
		}

		if err := store.CloseGame(r.Context(), gameID, req.Status); err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventGameClosed})
		writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
	}
}

func handleGetResults(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := store.GetResults(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}
