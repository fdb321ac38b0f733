package scores

import (
	"context"
)

// DeleteGame captures a snapshot of the game and its results, then removes
// the whole aggregate in one transaction: results, scores, rounds, round
// logs, and the game document itself. The snapshot is the undo payload for
// RestoreGame.
func (s *Store) DeleteGame(ctx context.Context, gameID string) (GameWithResults, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return GameWithResults{}, err
	}
	results, err := s.GetResults(ctx, gameID)
	if err != nil {
		return GameWithResults{}, err
	}
	snapshot := GameWithResults{Game: game, Results: results}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GameWithResults{}, err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM results WHERE game_id = ?`,
		`DELETE FROM scores WHERE game_id = ?`,
		`DELETE FROM round_logs WHERE game_id = ?`,
		`DELETE FROM rounds WHERE game_id = ?`,
		`DELETE FROM games WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, gameID); err != nil {
			return GameWithResults{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return GameWithResults{}, err
	}
	return snapshot, nil
}

// RestoreGame re-creates the game document and its results from a snapshot
// taken by DeleteGame. Rounds, scores, and round logs are deliberately NOT
// restored: undo brings back the summary and final ranking, not the
// editable round history.
func (s *Store) RestoreGame(ctx context.Context, snapshot GameWithResults) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	hideInt := 0
	if snapshot.HideScores {
		hideInt = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, started_at, ended_at, total_rounds, rounds_played, status, hide_scores, tag, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			total_rounds = excluded.total_rounds,
			rounds_played = excluded.rounds_played,
			status = excluded.status,
			hide_scores = excluded.hide_scores,
			tag = excluded.tag,
			notes = excluded.notes
	`, snapshot.ID, snapshot.StartedAt, snapshot.EndedAt, snapshot.TotalRounds,
		snapshot.RoundsPlayed, snapshot.Status, hideInt, snapshot.Tag, snapshot.Notes)
	if err != nil {
		return err
	}

	for _, res := range snapshot.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO results (game_id, player_id, rank, total_points, rounds_won)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (game_id, player_id) DO UPDATE SET
				rank = excluded.rank,
				total_points = excluded.total_points,
				rounds_won = excluded.rounds_won
		`, snapshot.ID, res.PlayerID, res.Rank, res.TotalPoints, res.RoundsWon)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
