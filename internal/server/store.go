package server

import (
	"context"

	"github.com/hsufamily/scorepad/internal/scores"
)

// Store is the core contract the HTTP layer consumes. *scores.Store is the
// production implementation.
type Store interface {
	StartGame(ctx context.Context, totalRounds int) (string, error)
	FindActiveGame(ctx context.Context) (string, error)
	GetGame(ctx context.Context, gameID string) (scores.Game, error)
	ListCompletedGames(ctx context.Context, limit int) ([]scores.GameWithResults, error)

	UpdateTotalRounds(ctx context.Context, gameID string, totalRounds int) error
	ToggleHideScores(ctx context.Context, gameID string, hide bool) error
	UpdateTag(ctx context.Context, gameID string, tag *string) error
	SyncProgress(ctx context.Context, gameID string) error

	ListRounds(ctx context.Context, gameID string) ([]scores.Round, error)
	ListRoundScores(ctx context.Context, gameID, roundID string) ([]scores.Score, error)
	SetScore(ctx context.Context, gameID, roundID, playerID string, points *int) error

	CloseGame(ctx context.Context, gameID string, status scores.Status) error
	GetResults(ctx context.Context, gameID string) ([]scores.GameResult, error)

	DeleteGame(ctx context.Context, gameID string) (scores.GameWithResults, error)
	RestoreGame(ctx context.Context, snapshot scores.GameWithResults) error

	Roster() []string
}

var _ Store = (*scores.Store)(nil)
