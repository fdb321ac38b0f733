package scores

import (
	"context"
	"sort"
)

type playerTotal struct {
	playerID    string
	totalPoints int
}

// CloseGame terminates a game. StatusCompleted runs the full finalizer:
// every complete round is validated (exactly one zero-point winner, fatal
// otherwise), totals and wins are aggregated, players are ranked ascending
// by total, and the round logs, results, and game update land in one
// transaction. StatusAbandoned only stamps the end time; no results are
// produced and the game stays editable only in the sense that nothing
// enforces otherwise at this layer.
func (s *Store) CloseGame(ctx context.Context, gameID string, status Status) error {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	if status == StatusAbandoned {
		_, err := s.db.ExecContext(ctx, `
			UPDATE games SET status = ?, ended_at = ? WHERE id = ?
		`, StatusAbandoned, nowUTC(), gameID)
		return err
	}

	rounds, err := s.ListRounds(ctx, gameID)
	if err != nil {
		return err
	}

	totals := make(map[string]int, len(s.roster))
	roundsWon := make(map[string]int, len(s.roster))
	completedRounds := 0
	var stagedLogs []RoundLog

	// All validation happens before any write: an invalid round aborts the
	// whole close with nothing staged.
	for _, round := range rounds {
		points, err := s.roundPoints(ctx, s.db, gameID, round.ID)
		if err != nil {
			return err
		}
		complete := s.completePoints(points)
		if complete == nil {
			continue
		}

		winner, err := s.validateRoundForClose(round.ID, complete)
		if err != nil {
			return err
		}

		for _, playerID := range s.roster {
			totals[playerID] += complete[playerID]
		}
		roundsWon[winner]++
		completedRounds++

		total := 0
		for _, playerID := range s.roster {
			total += complete[playerID]
		}
		stagedLogs = append(stagedLogs, RoundLog{
			ID:               roundLogID(gameID, round.ID),
			GameID:           gameID,
			RoundID:          round.ID,
			RoundNumber:      round.RoundNumber,
			PointsByPlayer:   complete,
			TotalRoundPoints: total,
			Source:           SourceEndGame,
		})
	}

	ranked := s.rankPlayers(totals)

	endedAt := nowUTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, log := range stagedLogs {
		log.GameStartedAt = &game.StartedAt
		log.GameEndedAt = &endedAt
		log.GameDate = &endedAt
		if err := s.putRoundLog(ctx, tx, log); err != nil {
			return err
		}
	}

	for i, entry := range ranked {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO results (game_id, player_id, rank, total_points, rounds_won)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (game_id, player_id) DO UPDATE SET
				rank = excluded.rank,
				total_points = excluded.total_points,
				rounds_won = excluded.rounds_won
		`, gameID, entry.playerID, i+1, entry.totalPoints, roundsWon[entry.playerID])
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE games SET status = ?, ended_at = ?, rounds_played = ? WHERE id = ?
	`, StatusCompleted, endedAt, min(game.TotalRounds, completedRounds), gameID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// rankPlayers sorts the roster ascending by total points (lowest total
// wins) and shuffles each run of exactly-tied players so ranks always form
// a strict 1..N with no tie markers. The shuffle draws from the injected
// randomness source.
func (s *Store) rankPlayers(totals map[string]int) []playerTotal {
	ranked := make([]playerTotal, 0, len(s.roster))
	for _, playerID := range s.roster {
		ranked = append(ranked, playerTotal{playerID: playerID, totalPoints: totals[playerID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].totalPoints < ranked[j].totalPoints
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(ranked); {
		j := i + 1
		for j < len(ranked) && ranked[j].totalPoints == ranked[i].totalPoints {
			j++
		}
		if j-i > 1 {
			run := ranked[i:j]
			s.rng.Shuffle(len(run), func(a, b int) {
				run[a], run[b] = run[b], run[a]
			})
		}
		i = j
	}
	return ranked
}
