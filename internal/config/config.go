package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/scorepad.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Ordered roster of player IDs. Every round collects one score per player.
	Players []string `env:"PLAYERS" envSeparator:"," envDefault:"A,Y,D,C"`

	DefaultTotalRounds int `env:"DEFAULT_TOTAL_ROUNDS" envDefault:"10"`

	// AvatarsDir holds per-player avatar images, one subdirectory per
	// player slug with an optional 1st/ subdirectory for winner shots.
	AvatarsDir string `env:"AVATARS_DIR" envDefault:"public/avatars"`

	// FamilyPINHash is a bcrypt hash of the 4-digit unlock PIN. When empty
	// the PIN gate is disabled and all /api routes are open.
	FamilyPINHash      string `env:"FAMILY_PIN_HASH"`
	FamilyCookieSecret string `env:"FAMILY_COOKIE_SECRET"`

	// RedisURL is optional; when set the health endpoint also checks Redis.
	RedisURL string `env:"REDIS_URL"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if len(cfg.Players) < 2 {
		return nil, fmt.Errorf("PLAYERS must list at least two player ids, got %d", len(cfg.Players))
	}
	return &cfg, nil
}
