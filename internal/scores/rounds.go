package scores

import (
	"context"
	"database/sql"
	"errors"
)

// querier lets round helpers run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// createRounds inserts rounds numbered from..to (inclusive) with empty
// score sets.
func createRounds(ctx context.Context, q querier, gameID string, from, to int) error {
	for n := from; n <= to; n++ {
		_, err := q.ExecContext(ctx, `
			INSERT INTO rounds (game_id, id, round_number, locked)
			VALUES (?, ?, ?, 0)
		`, gameID, roundID(n), n)
		if err != nil {
			return err
		}
	}
	return nil
}

// deleteRounds removes rounds numbered from..to together with their scores
// and round logs.
func deleteRounds(ctx context.Context, q querier, gameID string, from, to int) error {
	for n := from; n <= to; n++ {
		id := roundID(n)
		if _, err := q.ExecContext(ctx,
			`DELETE FROM scores WHERE game_id = ? AND round_id = ?`, gameID, id); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			`DELETE FROM rounds WHERE game_id = ? AND id = ?`, gameID, id); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			`DELETE FROM round_logs WHERE id = ?`, roundLogID(gameID, id)); err != nil {
			return err
		}
	}
	return nil
}

// ListRounds returns a game's rounds ordered by round number.
func (s *Store) ListRounds(ctx context.Context, gameID string) ([]Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, round_number, locked
		FROM rounds
		WHERE game_id = ?
		ORDER BY round_number
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var r Round
		var locked int
		if err := rows.Scan(&r.ID, &r.RoundNumber, &locked); err != nil {
			return nil, err
		}
		r.Locked = locked != 0
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// ListRoundScores returns the live score entries for one round, ordered by
// player id. Cells without an entered value have no entry.
func (s *Store) ListRoundScores(ctx context.Context, gameID, roundID string) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, points, entered_at
		FROM scores
		WHERE game_id = ? AND round_id = ?
		ORDER BY player_id
	`, gameID, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Score
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.PlayerID, &sc.Points, &sc.EnteredAt); err != nil {
			return nil, err
		}
		entries = append(entries, sc)
	}
	return entries, rows.Err()
}

// roundPoints reads a round's score set keyed by player. Only roster
// players are included.
func (s *Store) roundPoints(ctx context.Context, q querier, gameID, roundID string) (map[string]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT player_id, points FROM scores WHERE game_id = ? AND round_id = ?
	`, gameID, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make(map[string]int)
	for rows.Next() {
		var playerID string
		var pts int
		if err := rows.Scan(&playerID, &pts); err != nil {
			return nil, err
		}
		if s.inRoster(playerID) {
			points[playerID] = pts
		}
	}
	return points, rows.Err()
}

// SetScore upserts or clears (points == nil) one player's score for one
// round, then reconciles the round's log synchronously. Writes to the same
// cell are last-write-wins; writes to different cells are independent.
func (s *Store) SetScore(ctx context.Context, gameID, roundID, playerID string, points *int) error {
	if err := ValidatePoints(points); err != nil {
		return err
	}
	if !s.inRoster(playerID) {
		return ErrNotFound
	}
	if err := s.requireRound(ctx, gameID, roundID); err != nil {
		return err
	}

	if points == nil {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM scores WHERE game_id = ? AND round_id = ? AND player_id = ?
		`, gameID, roundID, playerID)
		if err != nil {
			return err
		}
	} else {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO scores (game_id, round_id, player_id, points, entered_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (game_id, round_id, player_id)
			DO UPDATE SET points = excluded.points, entered_at = excluded.entered_at
		`, gameID, roundID, playerID, *points, nowUTC())
		if err != nil {
			return err
		}
	}

	_, err := s.Reconcile(ctx, gameID, roundID, SourceRealtime)
	return err
}

func (s *Store) requireRound(ctx context.Context, gameID, roundID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM rounds WHERE game_id = ? AND id = ?
	`, gameID, roundID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
