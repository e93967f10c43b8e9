// Package schedule triggers syncs on a fixed interval.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Syncer is anything that can run a sync session. Ticks that land while a
// session is in flight are coalesced by the syncer, not here.
type Syncer interface {
	Sync(ctx context.Context) bool
}

// Interval maps the user facing interval setting to a tick duration. Zero
// disables the timer and anything unknown falls back to fifteen minutes.
func Interval(setting int) time.Duration {
	switch setting {
	case 0:
		return 0
	case 2:
		return 30 * time.Minute
	case 3:
		return 60 * time.Minute
	default:
		return 15 * time.Minute
	}
}

// Timer runs Syncer.Sync every interval. The first tick happens one interval
// after Start, not immediately.
type Timer struct {
	syncer Syncer
	sched  *gocron.Scheduler

	mu       sync.Mutex
	ctx      context.Context
	interval time.Duration
}

func NewTimer(syncer Syncer, setting int) *Timer {
	return &Timer{
		syncer:   syncer,
		sched:    gocron.NewScheduler(time.UTC),
		interval: Interval(setting),
	}
}

// Start schedules the job and starts the scheduler in the background. Syncs
// triggered by the timer run under ctx.
func (t *Timer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ctx = ctx
	if err := t.schedule(); err != nil {
		return err
	}
	t.sched.StartAsync()

	return nil
}

// Reset replaces the scheduled job with one at the new setting's interval.
func (t *Timer) Reset(setting int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.interval = Interval(setting)
	t.sched.Clear()
	if t.ctx == nil {
		// Not started yet, Start picks up the new interval
		return nil
	}

	return t.schedule()
}

// Stop stops the scheduler. A sync already running is left to finish.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sched.Clear()
	t.sched.Stop()
}

// Interval returns the current tick interval, zero when disabled.
func (t *Timer) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.interval
}

// Run starts the timer and blocks until ctx is done.
func (t *Timer) Run(ctx context.Context) error {
	if err := t.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	t.Stop()

	return nil
}

// schedule must be called with mu held.
func (t *Timer) schedule() error {
	if t.interval <= 0 {
		slog.InfoContext(t.ctx, "sync timer disabled")
		return nil
	}

	ctx := t.ctx
	_, err := t.sched.Every(t.interval).WaitForSchedule().Do(func() {
		if !t.syncer.Sync(ctx) {
			slog.DebugContext(ctx, "timer tick coalesced into running sync")
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling sync: %w", err)
	}
	slog.InfoContext(ctx, "sync timer scheduled", "interval", t.interval)

	return nil
}
