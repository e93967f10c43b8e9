// Package sync mirrors the server's folders, feeds and items into the local
// store and pushes the locally queued flag changes back.
//
// A sync either bootstraps an empty store with four independent fetches, or
// runs the incremental pipeline: flush read, flush starred, flush unstarred,
// folders, feeds, items. Every stage runs under its own deadline and the
// pipeline always moves on to the next stage; a failed stage only skips its
// own side effects and is retried implicitly by the next sync.
package sync

import (
	"context"
	"errors"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jdholdren/newsync/internal/newsync"
	"github.com/jdholdren/newsync/logger"
)

const (
	DefaultStageTimeout = 30 * time.Second

	// Subtitle for items whose feed isn't known locally.
	fallbackFeedTitle = "New article"
)

type Mode string

const (
	ModeInitial     Mode = "initial"
	ModeIncremental Mode = "incremental"
)

type (
	Config struct {
		// StageTimeout bounds every stage, and every bootstrap branch.
		StageTimeout time.Duration
	}

	// Service owns the sync session. Construct one per process and hand it to
	// whatever triggers syncs.
	Service struct {
		remote       newsync.Remote
		store        newsync.Store
		notifier     newsync.Notifier
		badge        newsync.Badge
		stageTimeout time.Duration

		running    atomic.Bool
		feedTitles *lru.Cache[int64, string]

		mu   gosync.Mutex
		last Run
	}

	// Run summarizes a finished sync.
	Run struct {
		ID           string    `json:"id"`
		Mode         Mode      `json:"mode"`
		StartedAt    time.Time `json:"startedAt"`
		FinishedAt   time.Time `json:"finishedAt"`
		FailedStages []string  `json:"failedStages"`
	}
)

func New(cfg Config, remote newsync.Remote, store newsync.Store, notifier newsync.Notifier, badge newsync.Badge) *Service {
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = DefaultStageTimeout
	}
	titles, _ := lru.New[int64, string](512)

	return &Service{
		remote:       remote,
		store:        store,
		notifier:     notifier,
		badge:        badge,
		stageTimeout: cfg.StageTimeout,
		feedTitles:   titles,
	}
}

// Sync runs one sync session. It reports false without doing anything when a
// session is already in flight. Stage failures are logged, never returned.
func (s *Service) Sync(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		slog.InfoContext(ctx, "sync already in flight, coalescing")
		return false
	}
	defer s.running.Store(false)

	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	ctx = logger.Ctx(ctx, slog.String("sync_id", run.ID))
	s.notifier.Publish(newsync.EventSyncStarted, newsync.Payload{newsync.KeySyncID: run.ID})

	run.Mode = s.mode(ctx)
	ctx = logger.Ctx(ctx, slog.String("mode", string(run.Mode)))
	slog.InfoContext(ctx, "sync started")

	switch run.Mode {
	case ModeInitial:
		run.FailedStages = s.initialSync(ctx)
	default:
		run.FailedStages = s.incrementalSync(ctx)
	}

	s.updateBadge(ctx)
	run.FinishedAt = time.Now()
	s.mu.Lock()
	s.last = run
	s.mu.Unlock()

	slog.InfoContext(ctx, "sync complete", "duration", run.FinishedAt.Sub(run.StartedAt), "failed_stages", run.FailedStages)
	s.notifier.Publish(newsync.EventSyncComplete, newsync.Payload{
		newsync.KeySyncID: run.ID,
		newsync.KeyMode:   string(run.Mode),
	})

	return true
}

// Running reports whether a sync is in flight.
func (s *Service) Running() bool {
	return s.running.Load()
}

// LastRun returns the summary of the most recent finished sync, ok is false
// before the first one.
func (s *Service) LastRun() (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last, !s.last.StartedAt.IsZero()
}

// mode picks the bootstrap path only when the store holds no items at all. A
// store that can't answer gets the incremental path so a transient read error
// never triggers a full refetch.
func (s *Service) mode(ctx context.Context) Mode {
	var hasItems bool
	err := s.runStage(ctx, "check_bootstrap", func(ctx context.Context) error {
		var err error
		hasItems, err = s.store.HasItems(ctx)
		return err
	})
	if err == nil && !hasItems {
		return ModeInitial
	}

	return ModeIncremental
}

// runStage runs fn under the stage deadline and logs how it went.
func (s *Service) runStage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx = logger.Ctx(ctx, slog.String("stage", name))
	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		slog.ErrorContext(ctx, "sync stage failed", "error", err, "duration", time.Since(start))
		return err
	}
	slog.DebugContext(ctx, "sync stage done", "duration", time.Since(start))

	return nil
}

// updateBadge sets the badge to the store's unread count.
func (s *Service) updateBadge(ctx context.Context) {
	count, err := s.store.UnreadCount(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error counting unread items for badge", "error", err)
		return
	}

	s.badge.Set(count)
}

// feedTitle resolves the title shown with a new item notification.
func (s *Service) feedTitle(ctx context.Context, feedID int64) string {
	if title, ok := s.feedTitles.Get(feedID); ok {
		return title
	}

	feed, err := s.store.Feed(ctx, feedID)
	if err != nil {
		if !errors.Is(err, newsync.ErrNotFound) {
			slog.ErrorContext(ctx, "error looking up feed title", "feed_id", feedID, "error", err)
		}
		return fallbackFeedTitle
	}
	s.feedTitles.Add(feedID, feed.Title)

	return feed.Title
}
