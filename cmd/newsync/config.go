package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Database string `env:"DATABASE, default=newsync.db"`

	NewsURL      string        `env:"NEWS_URL, required"`
	NewsUsername string        `env:"NEWS_USERNAME"`
	NewsPassword string        `env:"NEWS_PASSWORD"`
	NewsTimeout  time.Duration `env:"NEWS_TIMEOUT, default=10s"`

	// 0 disables the timer, 1..3 are 15, 30 and 60 minutes
	SyncInterval int           `env:"SYNC_INTERVAL, default=1"`
	StageTimeout time.Duration `env:"STAGE_TIMEOUT, default=30s"`

	Port       int    `env:"PORT, default=4444"`
	CorsOrigin string `env:"CORS_ORIGIN, default=*"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
	LogLevel     string `env:"LOG_LEVEL, default=info"`

	PushoverAppToken  string `env:"PUSHOVER_APP_TOKEN"`
	PushoverUserID    string `env:"PUSHOVER_USER_ID"`
	NotificationTitle string `env:"NOTIFICATION_TITLE, default=newsync"`
}

// loadConfig reads the .env file, when there is one, and then the
// environment. l is nil outside of tests.
func loadConfig(ctx context.Context, l envconfig.Lookuper) (config, error) {
	if l == nil {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("error loading .env: %w", err)
		}
		l = envconfig.OsLookuper()
	}

	var cfg config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return config{}, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.SyncInterval < 0 || cfg.SyncInterval > 3 {
		return config{}, fmt.Errorf("SYNC_INTERVAL must be between 0 and 3, got %d", cfg.SyncInterval)
	}

	return cfg, nil
}

// pushEnabled reports whether both halves of the pushover credentials are set.
func (c config) pushEnabled() bool {
	return c.PushoverAppToken != "" && c.PushoverUserID != ""
}
