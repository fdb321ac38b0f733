package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hsufamily/scorepad/internal/scores"
)

func TestActiveGameLifecycle(t *testing.T) {
	r := newTestRouter(t)

	// Nothing active yet.
	w := doJSON(t, r, http.MethodGet, "/api/game/active", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decode[ActiveGameResponse](t, w); resp.GameID != nil {
		t.Fatalf("expected no active game, got %q", *resp.GameID)
	}

	gameID := createGame(t, r, 10)

	w = doJSON(t, r, http.MethodGet, "/api/game/active", nil)
	resp := decode[ActiveGameResponse](t, w)
	if resp.GameID == nil || *resp.GameID != gameID {
		t.Fatalf("active game = %v, want %q", resp.GameID, gameID)
	}

	// A second game must be rejected while one is active.
	w = doJSON(t, r, http.MethodPost, "/api/games", CreateGameRequest{TotalRounds: 10})
	if w.Code != http.StatusConflict {
		t.Fatalf("second create: status = %d, want 409", w.Code)
	}
}

func TestCreateGameDefaultsTotalRounds(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 0)

	w := doJSON(t, r, http.MethodGet, "/api/games/"+gameID, nil)
	game := decode[scores.Game](t, w)
	if game.TotalRounds != 10 {
		t.Errorf("totalRounds = %d, want default 10", game.TotalRounds)
	}
}

func TestGetGameNotFound(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/games/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestScoreEntryAndResults(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 2)

	w := doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/rounds", nil)
	rounds := decode[[]scores.Round](t, w)
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(rounds))
	}

	points := map[string]int{"A": 0, "Y": 3, "D": 5, "C": 8}
	for _, round := range rounds {
		for player, pts := range points {
			path := fmt.Sprintf("/api/games/%s/rounds/%s/scores/%s", gameID, round.ID, player)
			if w := doJSON(t, r, http.MethodPut, path, SetScoreRequest{Points: &pts}); w.Code != http.StatusOK {
				t.Fatalf("set score: status = %d: %s", w.Code, w.Body.String())
			}
		}
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/rounds/01/scores", nil)
	if got := len(decode[[]scores.Score](t, w)); got != 4 {
		t.Fatalf("round scores = %d, want 4", got)
	}

	w = doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/close",
		CloseGameRequest{Status: scores.StatusCompleted})
	if w.Code != http.StatusOK {
		t.Fatalf("close: status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/results", nil)
	results := decode[[]scores.GameResult](t, w)
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	if results[0].PlayerID != "A" || results[0].Rank != 1 {
		t.Errorf("winner = %+v, want player A rank 1", results[0])
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/completed", nil)
	completed := decode[[]scores.GameWithResults](t, w)
	if len(completed) != 1 || completed[0].ID != gameID {
		t.Fatalf("completed list = %+v, want the closed game", completed)
	}
}

func TestSetScoreValidation(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 1)

	tooHigh := 14
	w := doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/rounds/01/scores/A",
		SetScoreRequest{Points: &tooHigh})
	if w.Code != http.StatusBadRequest {
		t.Errorf("14 points: status = %d, want 400", w.Code)
	}

	ok := 5
	w = doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/rounds/01/scores/Z",
		SetScoreRequest{Points: &ok})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown player: status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/rounds/09/scores/A",
		SetScoreRequest{Points: &ok})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown round: status = %d, want 404", w.Code)
	}
}

func TestCloseRejectsRoundWithoutWinner(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 1)

	for _, player := range testRoster {
		pts := 3
		path := "/api/games/" + gameID + "/rounds/01/scores/" + player
		doJSON(t, r, http.MethodPut, path, SetScoreRequest{Points: &pts})
	}

	w := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/close",
		CloseGameRequest{Status: scores.StatusCompleted})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestCloseRejectsBadStatus(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 1)

	w := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/close",
		map[string]string{"status": "paused"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGameSettings(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 10)

	w := doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/total-rounds",
		UpdateTotalRoundsRequest{TotalRounds: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("total-rounds: status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/hide-scores",
		HideScoresRequest{HideScores: true})
	if w.Code != http.StatusOK {
		t.Fatalf("hide-scores: status = %d", w.Code)
	}

	tag := "friday night"
	w = doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/tag", UpdateTagRequest{Tag: &tag})
	if w.Code != http.StatusOK {
		t.Fatalf("tag: status = %d", w.Code)
	}

	longTag := "this tag is far too long to be allowed"
	w = doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/tag", UpdateTagRequest{Tag: &longTag})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("long tag: status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/progress/sync", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("progress sync: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/"+gameID, nil)
	game := decode[scores.Game](t, w)
	if game.TotalRounds != 5 {
		t.Errorf("totalRounds = %d, want 5", game.TotalRounds)
	}
	if !game.HideScores {
		t.Errorf("hideScores not set")
	}
	if game.Tag == nil || *game.Tag != tag {
		t.Errorf("tag = %v, want %q", game.Tag, tag)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	r := newTestRouter(t)
	gameID := createGame(t, r, 1)

	for i, player := range testRoster {
		pts := i * 2
		doJSON(t, r, http.MethodPut, "/api/games/"+gameID+"/rounds/01/scores/"+player,
			SetScoreRequest{Points: &pts})
	}
	doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/close",
		CloseGameRequest{Status: scores.StatusCompleted})

	w := doJSON(t, r, http.MethodDelete, "/api/games/"+gameID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d: %s", w.Code, w.Body.String())
	}
	snapshot := decode[scores.GameWithResults](t, w)
	if snapshot.ID != gameID || len(snapshot.Results) != 4 {
		t.Fatalf("snapshot = %+v, want game with 4 results", snapshot)
	}

	if w := doJSON(t, r, http.MethodGet, "/api/games/"+gameID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("after delete: status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/games/restore", snapshot)
	if w.Code != http.StatusOK {
		t.Fatalf("restore: status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/results", nil)
	if got := len(decode[[]scores.GameResult](t, w)); got != 4 {
		t.Fatalf("restored results = %d, want 4", got)
	}
}

func TestRestoreRejectsEmptySnapshot(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/games/restore", scores.GameWithResults{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
