package scores

import (
	"context"
	"errors"
	"log/slog"
)

type BackfillOptions struct {
	// DryRun reports what would be written without touching round_logs.
	DryRun bool
	// LimitGames caps how many completed games are processed; 0 means all.
	LimitGames int
}

type BackfillSummary struct {
	DryRun                  bool `json:"dryRun"`
	ProcessedGames          int  `json:"processedGames"`
	ProcessedRounds         int  `json:"processedRounds"`
	CompletedRounds         int  `json:"completedRounds"`
	SkippedIncompleteRounds int  `json:"skippedIncompleteRounds"`
	WrittenLogs             int  `json:"writtenLogs"`
	RoundsWithOnePoint      int  `json:"roundsWithOnePoint"`
	FailedRounds            int  `json:"failedRounds"`
}

// Backfill walks every completed game once and reconciles each round's log
// from the current score data. Upserts are idempotent, so the sweep is safe
// to re-run; a second pass only writes logs for rounds that changed since
// the first. Individual round failures are logged and counted, never fatal
// for the sweep.
func (s *Store) Backfill(ctx context.Context, logger *slog.Logger, opts BackfillOptions) (BackfillSummary, error) {
	summary := BackfillSummary{DryRun: opts.DryRun}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM games WHERE status = ? ORDER BY ended_at
	`, StatusCompleted)
	if err != nil {
		return summary, err
	}
	var gameIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return summary, err
		}
		gameIDs = append(gameIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return summary, err
	}

	for _, gameID := range gameIDs {
		if opts.LimitGames > 0 && summary.ProcessedGames >= opts.LimitGames {
			break
		}
		summary.ProcessedGames++

		rounds, err := s.ListRounds(ctx, gameID)
		if err != nil {
			logger.Error("backfill: listing rounds failed", "gameId", gameID, "error", err)
			continue
		}

		for _, round := range rounds {
			summary.ProcessedRounds++

			points, err := s.roundPoints(ctx, s.db, gameID, round.ID)
			if err != nil {
				summary.FailedRounds++
				logger.Error("backfill: reading scores failed", "gameId", gameID, "roundId", round.ID, "error", err)
				continue
			}
			complete := s.completePoints(points)
			if complete == nil {
				summary.SkippedIncompleteRounds++
				continue
			}
			summary.CompletedRounds++
			for _, pts := range complete {
				if pts == 1 {
					summary.RoundsWithOnePoint++
					break
				}
			}

			wrote, err := s.reconcileRound(ctx, gameID, round.ID, SourceBackfill, opts.DryRun)
			if err != nil && !errors.Is(err, ErrNotFound) {
				summary.FailedRounds++
				logger.Error("backfill: reconcile failed", "gameId", gameID, "roundId", round.ID, "error", err)
				continue
			}
			if wrote {
				summary.WrittenLogs++
			}
		}
	}

	return summary, nil
}
