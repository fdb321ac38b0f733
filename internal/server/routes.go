package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Scorepad API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, opts.DB, opts.Redis))

	r.Route("/api", func(r chi.Router) {
		r.Post("/unlock", handleUnlock(opts.Gate))

		// Everything else sits behind the PIN gate.
		r.Group(func(r chi.Router) {
			r.Use(opts.Gate.Middleware)

			r.Get("/game/active", handleActiveGame(opts.Store))
			r.Get("/avatars/random", handleRandomAvatar(opts.AvatarsDir))

			r.Post("/games", handleCreateGame(opts.Store, opts.DefaultTotalRounds))
			r.Get("/games/completed", handleListCompletedGames(opts.Store))
			r.Post("/games/restore", handleRestoreGame(opts.Store))

			r.Route("/games/{gameID}", func(r chi.Router) {
				r.Get("/", handleGetGame(opts.Store))
				r.Delete("/", handleDeleteGame(opts.Store, broker))

				r.Put("/total-rounds", handleUpdateTotalRounds(opts.Store, broker))
				r.Put("/hide-scores", handleHideScores(opts.Store, broker))
				r.Put("/tag", handleUpdateTag(opts.Store, broker))
				r.Post("/close", handleCloseGame(opts.Store, broker))
				r.Post("/progress/sync", handleSyncProgress(opts.Store, broker))

				r.Get("/rounds", handleListRounds(opts.Store))
				r.Get("/rounds/{roundID}/scores", handleListRoundScores(opts.Store))
				r.Put("/rounds/{roundID}/scores/{playerID}", handleSetScore(opts.Store, broker))

				r.Get("/results", handleGetResults(opts.Store))

				r.Get("/events", handleEvents(opts.Store, broker))
				r.Get("/ws", handleWS(opts.Store, broker, logger))
			})
		})
	})
}
