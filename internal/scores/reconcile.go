package scores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"maps"
)

// GetRoundLog fetches the denormalized log entry for one round.
func (s *Store) GetRoundLog(ctx context.Context, gameID, rID string) (RoundLog, error) {
	var log RoundLog
	var pointsJSON string
	var startedAt, endedAt, gameDate sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, game_id, round_id, round_number, points_by_player, total_round_points,
			game_started_at, game_ended_at, game_date, source, logged_at
		FROM round_logs WHERE id = ?
	`, roundLogID(gameID, rID)).Scan(
		&log.ID, &log.GameID, &log.RoundID, &log.RoundNumber, &pointsJSON, &log.TotalRoundPoints,
		&startedAt, &endedAt, &gameDate, &log.Source, &log.LoggedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return RoundLog{}, ErrNotFound
	}
	if err != nil {
		return RoundLog{}, err
	}
	if err := json.Unmarshal([]byte(pointsJSON), &log.PointsByPlayer); err != nil {
		return RoundLog{}, err
	}
	if startedAt.Valid {
		log.GameStartedAt = &startedAt.String
	}
	if endedAt.Valid {
		log.GameEndedAt = &endedAt.String
	}
	if gameDate.Valid {
		log.GameDate = &gameDate.String
	}
	return log, nil
}

// Reconcile recomputes one round's log entry from the live score set. The
// log exists iff the round is currently complete: incomplete rounds get
// their log deleted (a no-op when absent). Returns whether a log was
// written. This is eventual consistency by explicit recomputation — the
// log is only as fresh as the last Reconcile call.
func (s *Store) Reconcile(ctx context.Context, gameID, rID string, source Source) (bool, error) {
	return s.reconcileRound(ctx, gameID, rID, source, false)
}

func (s *Store) reconcileRound(ctx context.Context, gameID, rID string, source Source, dryRun bool) (bool, error) {
	points, err := s.roundPoints(ctx, s.db, gameID, rID)
	if err != nil {
		return false, err
	}

	complete := s.completePoints(points)
	if complete == nil {
		if dryRun {
			return false, nil
		}
		return false, s.deleteRoundLog(ctx, gameID, rID)
	}

	var roundNumber int
	err = s.db.QueryRowContext(ctx, `
		SELECT round_number FROM rounds WHERE game_id = ? AND id = ?
	`, gameID, rID).Scan(&roundNumber)
	if errors.Is(err, sql.ErrNoRows) {
		if dryRun {
			return false, nil
		}
		return false, s.deleteRoundLog(ctx, gameID, rID)
	}
	if err != nil {
		return false, err
	}

	game, err := s.GetGame(ctx, gameID)
	if errors.Is(err, ErrNotFound) {
		if dryRun {
			return false, nil
		}
		return false, s.deleteRoundLog(ctx, gameID, rID)
	}
	if err != nil {
		return false, err
	}

	total := 0
	for _, playerID := range s.roster {
		total += complete[playerID]
	}
	gameDate := game.EndedAt
	if gameDate == nil {
		gameDate = &game.StartedAt
	}

	desired := RoundLog{
		ID:               roundLogID(gameID, rID),
		GameID:           gameID,
		RoundID:          rID,
		RoundNumber:      roundNumber,
		PointsByPlayer:   complete,
		TotalRoundPoints: total,
		GameStartedAt:    &game.StartedAt,
		GameEndedAt:      game.EndedAt,
		GameDate:         gameDate,
		Source:           source,
	}

	// Skip the write when the stored log already matches; keeps repeated
	// sweeps idempotent and makes "written" counts meaningful.
	if existing, err := s.GetRoundLog(ctx, gameID, rID); err == nil && logsEqual(existing, desired) {
		return false, nil
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}

	if dryRun {
		return true, nil
	}
	return true, s.putRoundLog(ctx, s.db, desired)
}

func logsEqual(a, b RoundLog) bool {
	return a.RoundNumber == b.RoundNumber &&
		a.TotalRoundPoints == b.TotalRoundPoints &&
		a.Source == b.Source &&
		maps.Equal(a.PointsByPlayer, b.PointsByPlayer) &&
		nullableEqual(a.GameStartedAt, b.GameStartedAt) &&
		nullableEqual(a.GameEndedAt, b.GameEndedAt) &&
		nullableEqual(a.GameDate, b.GameDate)
}

func nullableEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Store) putRoundLog(ctx context.Context, q querier, log RoundLog) error {
	pointsJSON, err := json.Marshal(log.PointsByPlayer)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO round_logs (id, game_id, round_id, round_number, points_by_player,
			total_round_points, game_started_at, game_ended_at, game_date, source, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			round_number = excluded.round_number,
			points_by_player = excluded.points_by_player,
			total_round_points = excluded.total_round_points,
			game_started_at = excluded.game_started_at,
			game_ended_at = excluded.game_ended_at,
			game_date = excluded.game_date,
			source = excluded.source,
			logged_at = excluded.logged_at
	`, log.ID, log.GameID, log.RoundID, log.RoundNumber, string(pointsJSON),
		log.TotalRoundPoints, log.GameStartedAt, log.GameEndedAt, log.GameDate, log.Source, nowUTC())
	return err
}

func (s *Store) deleteRoundLog(ctx context.Context, gameID, rID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM round_logs WHERE id = ?`, roundLogID(gameID, rID))
	return err
}
