package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	nserrs "github.com/jdholdren/newsync/internal/errors"
	"github.com/jdholdren/newsync/internal/newsync"
	"github.com/jdholdren/newsync/internal/notify"
	"github.com/jdholdren/newsync/internal/schedule"
	"github.com/jdholdren/newsync/internal/server"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Sync on a timer and serve the control api",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runDaemon(cmd.Context(), a)

		var sigErr run.SignalError
		if errors.As(err, &sigErr) {
			slog.Info("shutting down", "signal", sigErr.Signal)
			return nil
		}
		if errors.Is(err, context.Canceled) {
			// Interrupted through the root context
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(ctx context.Context, a *app) error {
	var (
		g      run.Group
		events = notify.NewSSEServer()
		srvr   = server.NewServer(ctx, server.Config{
			Port:       a.cfg.Port,
			CorsOrigin: a.cfg.CorsOrigin,
		}, a.svc, a.store, events)
		timer = schedule.NewTimer(a.svc, a.cfg.SyncInterval)
	)

	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	// Control api
	g.Add(func() error {
		slog.Info("control server listening", "port", a.cfg.Port)
		if err := srvr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error serving control api: %w", err)
		}
		return nil
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srvr.Shutdown(shutdownCtx)
		events.Close()
	})

	addActor(ctx, &g, "timer", timer.Run)
	addActor(ctx, &g, "sse bridge", notify.NewSSEBridge(a.bus, events).Run)
	if a.cfg.pushEnabled() {
		addActor(ctx, &g, "pusher", notify.NewPusher(a.bus, a.cfg.PushoverAppToken, a.cfg.PushoverUserID, a.cfg.NotificationTitle).Run)
	} else {
		slog.Info("pushover credentials not set, push notifications disabled")
	}

	// First sync as soon as the server answers, then wait for the timer
	addActor(ctx, &g, "startup sync", func(ctx context.Context) error {
		if err := waitForServer(ctx, a.remote); err != nil {
			slog.ErrorContext(ctx, "news server unreachable, leaving sync to the timer", "error", err)
		} else {
			a.svc.Sync(ctx)
		}
		<-ctx.Done()
		return nil
	})

	return g.Run()
}

// addActor runs fn until the group is interrupted.
func addActor(ctx context.Context, g *run.Group, name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(ctx)
	g.Add(func() error {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}, func(error) {
		cancel()
	})
}

// waitForServer retries a cheap request until the server answers. Only
// network failures are retried, a server that rejects us won't get better.
func waitForServer(ctx context.Context, remote newsync.Remote) error {
	b := retry.WithMaxDuration(2*time.Minute, retry.NewFibonacci(time.Second))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		_, err := remote.Folders(ctx)
		if nserrs.IsKind(err, nserrs.KindNetwork) {
			slog.InfoContext(ctx, "waiting for news server", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
