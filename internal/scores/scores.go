// Package scores owns the game/round/score data model and the operations
// that keep it consistent: game lifecycle, per-cell score writes, the
// denormalized round-log projection, progress tracking, and the immutable
// results produced at game close.
package scores

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"
)

// Status is the lifecycle state of a game. Both completed and abandoned are
// terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Source tags the origin of a round-log write.
type Source string

const (
	SourceRealtime Source = "realtime"
	SourceEndGame  Source = "endGame"
	SourceBackfill Source = "backfill"
)

// MaxPoints is the highest point value a player can take in a round. Zero
// points marks the round winner; lower totals win the game.
const MaxPoints = 13

// MaxTagLength bounds the free-form tag on a game.
const MaxTagLength = 24

type Game struct {
	ID           string  `json:"id"`
	StartedAt    string  `json:"startedAt"`
	EndedAt      *string `json:"endedAt"`
	TotalRounds  int     `json:"totalRounds"`
	RoundsPlayed int     `json:"roundsPlayed"`
	Status       Status  `json:"status"`
	HideScores   bool    `json:"hideScores"`
	Tag          *string `json:"tag"`
	Notes        *string `json:"notes"`
}

type Round struct {
	ID          string `json:"id"`
	RoundNumber int    `json:"roundNumber"`
	Locked      bool   `json:"locked"`
}

// Score is one player's entered points for one round. A cleared cell has no
// row at all, so every stored Score carries a numeric value.
type Score struct {
	PlayerID  string `json:"playerId"`
	Points    int    `json:"points"`
	EnteredAt string `json:"enteredAt"`
}

// RoundLog is the denormalized projection of a completed round, keyed
// "{gameId}_{roundId}" so it stays queryable across games without walking
// the game/round hierarchy. It exists iff the round was complete at the
// time of the last reconciliation.
type RoundLog struct {
	ID               string         `json:"id"`
	GameID           string         `json:"gameId"`
	RoundID          string         `json:"roundId"`
	RoundNumber      int            `json:"roundNumber"`
	PointsByPlayer   map[string]int `json:"pointsByPlayer"`
	TotalRoundPoints int            `json:"totalRoundPoints"`
	GameStartedAt    *string        `json:"gameStartedAt"`
	GameEndedAt      *string        `json:"gameEndedAt"`
	GameDate         *string        `json:"gameDate"`
	Source           Source         `json:"source"`
	LoggedAt         string         `json:"loggedAt"`
}

// GameResult is one player's immutable final ranking for a closed game.
type GameResult struct {
	PlayerID    string `json:"playerId"`
	Rank        int    `json:"rank"`
	TotalPoints int    `json:"totalPoints"`
	RoundsWon   int    `json:"roundsWon"`
}

// GameWithResults bundles a game with its final results. It doubles as the
// snapshot captured by DeleteGame for undo.
type GameWithResults struct {
	Game
	Results []GameResult `json:"results"`
}

// Store implements every consistency-maintaining operation over one SQLite
// database. The roster is the ordered, fixed set of player IDs; a round is
// complete when every roster player has a stored score.
type Store struct {
	db     *sql.DB
	roster []string

	mu  sync.Mutex // guards rng
	rng *mrand.Rand
}

type Option func(*Store)

// WithRand replaces the tie-break randomness source. Tests use a seeded
// source to make rankings among tied players deterministic.
func WithRand(r *mrand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

func New(db *sql.DB, roster []string, opts ...Option) *Store {
	s := &Store{
		db:     db,
		roster: append([]string(nil), roster...),
		rng:    mrand.New(mrand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roster returns the ordered player IDs this store scores for.
func (s *Store) Roster() []string {
	return append([]string(nil), s.roster...)
}

func (s *Store) inRoster(playerID string) bool {
	for _, p := range s.roster {
		if p == playerID {
			return true
		}
	}
	return false
}

// roundID maps a 1-based round number to its positional document id, so
// round N is always addressable without a lookup.
func roundID(roundNumber int) string {
	return fmt.Sprintf("%02d", roundNumber)
}

func roundLogID(gameID, roundID string) string {
	return gameID + "_" + roundID
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
