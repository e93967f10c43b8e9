package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/jdholdren/newsync/internal/migrations"
	"github.com/jdholdren/newsync/internal/newsapi"
	"github.com/jdholdren/newsync/internal/notify"
	"github.com/jdholdren/newsync/internal/sqlite"
	nssync "github.com/jdholdren/newsync/internal/sync"
	"github.com/jdholdren/newsync/logger"
)

// app is everything the subcommands share, built once per invocation.
type app struct {
	cfg    config
	db     *sqlx.DB
	store  sqlite.Repo
	remote *newsapi.Client
	bus    *notify.Bus
	badge  *notify.Badge
	svc    *nssync.Service
}

var (
	dbPath string
	a      *app
)

var rootCmd = &cobra.Command{
	Use:           "newsync",
	Short:         "Keep a local mirror of a News server in sync",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(ctx, nil)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database = dbPath
		}

		l, err := logger.New(os.Stderr, cfg.LoggerFormat, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("error building logger: %w", err)
		}
		slog.SetDefault(l)

		dbx, err := sqlite.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := migrations.Run(dbx); err != nil {
			dbx.Close()
			return fmt.Errorf("error migrating: %w", err)
		}

		remote, err := newsapi.New(newsapi.Config{
			BaseURL:  cfg.NewsURL,
			Username: cfg.NewsUsername,
			Password: cfg.NewsPassword,
			Timeout:  cfg.NewsTimeout,
		}, nil)
		if err != nil {
			dbx.Close()
			return fmt.Errorf("error creating news client: %w", err)
		}

		var (
			store = sqlite.New(dbx)
			bus   = notify.NewBus()
			badge = notify.NewBadge(bus)
		)
		a = &app{
			cfg:    cfg,
			db:     dbx,
			store:  store,
			remote: remote,
			bus:    bus,
			badge:  badge,
			svc:    nssync.New(nssync.Config{StageTimeout: cfg.StageTimeout}, remote, store, bus, badge),
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a != nil && a.db != nil {
			if err := a.db.Close(); err != nil {
				return fmt.Errorf("error closing database: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file path (default: $DATABASE or newsync.db)")
}
