package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hsufamily/scorepad/internal/scores"
)

// ActiveGameResponse carries the id of the game in progress, or null.
type ActiveGameResponse struct {
	GameID *string `json:"gameId"`
}

func handleActiveGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := store.FindActiveGame(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		resp := ActiveGameResponse{}
		if id != "" {
			resp.GameID = &id
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type CreateGameRequest struct {
	TotalRounds int `json:"totalRounds"`
}

type CreateGameResponse struct {
	ID string `json:"id"`
}

func handleCreateGame(store Store, defaultTotalRounds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.TotalRounds == 0 {
			req.TotalRounds = defaultTotalRounds
		}

		id, err := store.StartGame(r.Context(), req.TotalRounds)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, CreateGameResponse{ID: id})
	}
}

func handleGetGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, err := store.GetGame(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

func handleListCompletedGames(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		games, err := store.ListCompletedGames(r.Context(), limit)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

// handleDeleteGame removes a game and everything it owns, returning the
// snapshot a client needs to offer undo.
func handleDeleteGame(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		snapshot, err := store.DeleteGame(r.Context(), gameID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		broker.Publish(gameID, Event{Type: eventGameDeleted})
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func handleRestoreGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snapshot scores.GameWithResults
		if err := readJSON(r, &snapshot); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if snapshot.ID == "" {
			writeError(w, http.StatusBadRequest, "snapshot id is required")
			return
		}
		if err := store.RestoreGame(r.Context(), snapshot); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"restored": true})
	}
}
