package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const gameColumns = `id, started_at, ended_at, total_rounds, rounds_played, status, hide_scores, tag, notes`

type gameScanner interface {
	Scan(dest ...any) error
}

func scanGame(row gameScanner) (Game, error) {
	var g Game
	var endedAt, tag, notes sql.NullString
	var hideScores int
	err := row.Scan(&g.ID, &g.StartedAt, &endedAt, &g.TotalRounds, &g.RoundsPlayed, &g.Status, &hideScores, &tag, &notes)
	if err != nil {
		return Game{}, err
	}
	g.HideScores = hideScores != 0
	if endedAt.Valid {
		g.EndedAt = &endedAt.String
	}
	if tag.Valid {
		g.Tag = &tag.String
	}
	if notes.Valid {
		g.Notes = &notes.String
	}
	return g, nil
}

// StartGame creates a new active game with rounds 1..totalRounds. The
// active-game check and the insert share one transaction, so two concurrent
// starts cannot both succeed.
func (s *Store) StartGame(ctx context.Context, totalRounds int) (string, error) {
	if totalRounds <= 0 {
		return "", ErrInvalidRoundCount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM games WHERE status = ? LIMIT 1
	`, StatusActive).Scan(&existing)
	if err == nil {
		return "", ErrActiveGameExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	gameID := newID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, started_at, ended_at, total_rounds, rounds_played, status, hide_scores, tag, notes)
		VALUES (?, ?, NULL, ?, 0, ?, 0, NULL, NULL)
	`, gameID, nowUTC(), totalRounds, StatusActive)
	if err != nil {
		return "", err
	}

	if err := createRounds(ctx, tx, gameID, 1, totalRounds); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return gameID, nil
}

// FindActiveGame returns the id of the single active game, or "" if none.
func (s *Store) FindActiveGame(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM games WHERE status = ? LIMIT 1
	`, StatusActive).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *Store) GetGame(ctx context.Context, gameID string) (Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, gameID)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	return g, err
}

// GetResults returns a closed game's results ordered by rank ascending.
func (s *Store) GetResults(ctx context.Context, gameID string) ([]GameResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, rank, total_points, rounds_won
		FROM results
		WHERE game_id = ?
		ORDER BY rank
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var res GameResult
		if err := rows.Scan(&res.PlayerID, &res.Rank, &res.TotalPoints, &res.RoundsWon); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListCompletedGames returns up to limit completed games, most recently
// ended first, each with its results.
func (s *Store) ListCompletedGames(ctx context.Context, limit int) ([]GameWithResults, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE status = ?
		ORDER BY ended_at DESC
		LIMIT ?
	`, StatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []GameWithResults{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, GameWithResults{Game: g})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range games {
		results, err := s.GetResults(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Results = results
	}
	return games, nil
}

// UpdateTotalRounds resizes a game's round set: growing appends empty
// rounds, shrinking deletes the trailing rounds together with their scores
// and round logs. RoundsPlayed is clamped and then re-derived.
func (s *Store) UpdateTotalRounds(ctx context.Context, gameID string, totalRounds int) error {
	if totalRounds <= 0 {
		return ErrInvalidRoundCount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var currentTotal, roundsPlayed int
	err = tx.QueryRowContext(ctx, `
		SELECT total_rounds, rounds_played FROM games WHERE id = ?
	`, gameID).Scan(&currentTotal, &roundsPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE games SET total_rounds = ?, rounds_played = ? WHERE id = ?
	`, totalRounds, min(roundsPlayed, totalRounds), gameID)
	if err != nil {
		return err
	}

	switch {
	case totalRounds > currentTotal:
		if err := createRounds(ctx, tx, gameID, currentTotal+1, totalRounds); err != nil {
			return err
		}
	case totalRounds < currentTotal:
		if err := deleteRounds(ctx, tx, gameID, totalRounds+1, currentTotal); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return s.SyncProgress(ctx, gameID)
}

func (s *Store) ToggleHideScores(ctx context.Context, gameID string, hide bool) error {
	hideInt := 0
	if hide {
		hideInt = 1
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE games SET hide_scores = ? WHERE id = ?
	`, hideInt, gameID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateTag trims the tag; an empty or whitespace-only tag clears it.
func (s *Store) UpdateTag(ctx context.Context, gameID string, tag *string) error {
	trimmed := ""
	if tag != nil {
		trimmed = strings.TrimSpace(*tag)
	}
	if len(trimmed) > MaxTagLength {
		return ErrTagTooLong
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE games SET tag = NULLIF(?, '') WHERE id = ?
	`, trimmed, gameID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CountCompletedRounds counts rounds where every roster player has a score.
func (s *Store) CountCompletedRounds(ctx context.Context, gameID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rounds r
		WHERE r.game_id = ?
		AND (SELECT COUNT(*) FROM scores sc
		     WHERE sc.game_id = r.game_id AND sc.round_id = r.id) = ?
	`, gameID, len(s.roster)).Scan(&count)
	return count, err
}

// SyncProgress re-derives rounds_played from the live score data. Callers
// invoke it after any batch of score changes that should move the current
// round pointer; single score writes rely on the live feed instead.
func (s *Store) SyncProgress(ctx context.Context, gameID string) error {
	completed, err := s.CountCompletedRounds(ctx, gameID)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE games SET rounds_played = ? WHERE id = ?
	`, completed, gameID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
