// Command backfill sweeps completed games and reconciles their round logs.
// It exists for recovering from the days before real-time logging, and for
// repairing logs after manual database edits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hsufamily/scorepad/internal/config"
	"github.com/hsufamily/scorepad/internal/database"
	"github.com/hsufamily/scorepad/internal/migrations"
	"github.com/hsufamily/scorepad/internal/scores"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer, args []string) error {
	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "report what would change without writing")
	limitGames := fs.Int("limit-games", 0, "process at most this many games (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	store := scores.New(db, cfg.Players)

	summary, err := store.Backfill(ctx, logger, scores.BackfillOptions{
		DryRun:     *dryRun,
		LimitGames: *limitGames,
	})
	if err != nil {
		return fmt.Errorf("backfilling round logs: %w", err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
