package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/hsufamily/scorepad/internal/scores"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps dependency names to their status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Scorepad API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Session tracker for the family card game nights.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/unlock
	postUnlock, _ := r.NewOperationContext(http.MethodPost, "/api/unlock")
	postUnlock.SetSummary("Family unlock")
	postUnlock.SetDescription("Verifies the family PIN and sets the unlock cookie.")
	postUnlock.AddReqStructure(UnlockRequest{})
	postUnlock.AddRespStructure(UnlockResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUnlock.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUnlock.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postUnlock)

	// GET /api/game/active
	getActive, _ := r.NewOperationContext(http.MethodGet, "/api/game/active")
	getActive.SetSummary("Find the active game")
	getActive.SetDescription("Returns the id of the game in progress, or null when none.")
	getActive.AddRespStructure(ActiveGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getActive)

	// POST /api/games
	postGames, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGames.SetSummary("Start a game")
	postGames.SetDescription("Creates a new active game with its rounds. Only one game may be active.")
	postGames.AddReqStructure(CreateGameRequest{})
	postGames.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGames)

	// GET /api/games/completed
	getCompleted, _ := r.NewOperationContext(http.MethodGet, "/api/games/completed")
	getCompleted.SetSummary("List completed games")
	getCompleted.SetDescription("Returns completed games with their results, most recent first.")
	getCompleted.AddRespStructure([]scores.GameWithResults{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCompleted)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.AddRespStructure(scores.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// PUT /api/games/{gameID}/total-rounds
	putTotalRounds, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}/total-rounds")
	putTotalRounds.SetSummary("Change round count")
	putTotalRounds.SetDescription("Grows or shrinks the game. Shrinking discards trailing rounds and their scores.")
	putTotalRounds.AddReqStructure(UpdateTotalRoundsRequest{})
	putTotalRounds.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	putTotalRounds.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putTotalRounds.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putTotalRounds)

	// PUT /api/games/{gameID}/hide-scores
	putHide, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}/hide-scores")
	putHide.SetSummary("Toggle score visibility")
	putHide.AddReqStructure(HideScoresRequest{})
	putHide.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	putHide.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putHide)

	// PUT /api/games/{gameID}/tag
	putTag, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}/tag")
	putTag.SetSummary("Set game tag")
	putTag.SetDescription("Sets a short label on the game. Null or blank clears it.")
	putTag.AddReqStructure(UpdateTagRequest{})
	putTag.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	putTag.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putTag.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putTag)

	// POST /api/games/{gameID}/close
	postClose, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/close")
	postClose.SetSummary("End a game")
	postClose.SetDescription("Finalizes a game as completed (with ranked results) or abandoned.")
	postClose.AddReqStructure(CloseGameRequest{})
	postClose.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postClose)

	// POST /api/games/{gameID}/progress/sync
	postSync, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/progress/sync")
	postSync.SetSummary("Recompute progress")
	postSync.SetDescription("Recounts completed rounds from stored scores.")
	postSync.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postSync.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSync)

	// GET /api/games/{gameID}/rounds
	getRounds, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/rounds")
	getRounds.SetSummary("List rounds")
	getRounds.AddRespStructure([]scores.Round{}, openapi.WithHTTPStatus(http.StatusOK))
	getRounds.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRounds)

	// GET /api/games/{gameID}/rounds/{roundID}/scores
	getScores, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/rounds/{roundID}/scores")
	getScores.SetSummary("List round scores")
	getScores.AddRespStructure([]scores.Score{}, openapi.WithHTTPStatus(http.StatusOK))
	getScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getScores)

	// PUT /api/games/{gameID}/rounds/{roundID}/scores/{playerID}
	putScore, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}/rounds/{roundID}/scores/{playerID}")
	putScore.SetSummary("Set a score")
	putScore.SetDescription("Records a player's points for a round. Null points clears the cell.")
	putScore.AddReqStructure(SetScoreRequest{})
	putScore.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	putScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putScore)

	// GET /api/games/{gameID}/results
	getResults, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/results")
	getResults.SetSummary("Get final results")
	getResults.AddRespStructure([]scores.GameResult{}, openapi.WithHTTPStatus(http.StatusOK))
	getResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResults)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.SetDescription("Deletes a game and everything it owns. Returns a snapshot usable for undo.")
	deleteGame.AddRespStructure(scores.GameWithResults{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/restore
	postRestore, _ := r.NewOperationContext(http.MethodPost, "/api/games/restore")
	postRestore.SetSummary("Restore a deleted game")
	postRestore.SetDescription("Re-creates a game from a delete snapshot. Round details are not restored.")
	postRestore.AddReqStructure(scores.GameWithResults{})
	postRestore.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postRestore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRestore)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game/round/score change hints.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{gameID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	getWS.SetSummary("WebSocket event stream")
	getWS.SetDescription("Upgrades to a WebSocket carrying the same events as the SSE stream.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/avatars/random
	getAvatar, _ := r.NewOperationContext(http.MethodGet, "/api/avatars/random")
	getAvatar.SetSummary("Pick a random avatar")
	getAvatar.SetDescription("Returns a random avatar URL for a player. rank=1 prefers winner shots.")
	getAvatar.AddRespStructure(AvatarResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getAvatar.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getAvatar.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getAvatar)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
