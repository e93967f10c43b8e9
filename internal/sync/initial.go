package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/jdholdren/newsync/internal/newsync"
)

// initialSync fills an empty store. The four branches are independent: none
// waits on another and a failure in one doesn't touch the others. It returns
// the names of the branches that failed.
func (s *Service) initialSync(ctx context.Context) []string {
	var (
		g      errgroup.Group
		mu     gosync.Mutex
		failed = []string{}
	)

	branch := func(name string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			if err := s.runStage(ctx, name, fn); err != nil {
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
			// Never cancel the siblings
			return nil
		})
	}

	branch("unread_items", func(ctx context.Context) error {
		return s.bootstrapItems(ctx, newsync.ItemsQuery{
			Type:      newsync.ItemTypeAll,
			GetRead:   false,
			BatchSize: newsync.Unbounded,
		})
	})
	branch("starred_items", func(ctx context.Context) error {
		return s.bootstrapItems(ctx, newsync.ItemsQuery{
			Type:      newsync.ItemTypeStarred,
			GetRead:   true,
			BatchSize: newsync.Unbounded,
		})
	})
	branch("folders", s.bootstrapFolders)
	branch("feeds", s.bootstrapFeeds)

	_ = g.Wait()

	return failed
}

func (s *Service) bootstrapItems(ctx context.Context, q newsync.ItemsQuery) error {
	res, err := s.remote.Items(ctx, q)
	if err != nil {
		return fmt.Errorf("error fetching items: %w", err)
	}
	if _, err := s.store.UpdateItems(ctx, res.Items); err != nil {
		return fmt.Errorf("error storing items: %w", err)
	}
	s.updateBadge(ctx)

	return nil
}

func (s *Service) bootstrapFolders(ctx context.Context) error {
	folders, err := s.remote.Folders(ctx)
	if err != nil {
		return fmt.Errorf("error fetching folders: %w", err)
	}
	if err := s.store.UpdateFolders(ctx, folders); err != nil {
		return fmt.Errorf("error storing folders: %w", err)
	}

	return nil
}

func (s *Service) bootstrapFeeds(ctx context.Context) error {
	res, err := s.remote.Feeds(ctx)
	if err != nil {
		return fmt.Errorf("error fetching feeds: %w", err)
	}
	if meta, ok := res.Meta(); ok {
		if err := s.store.UpdateFeedsMeta(ctx, meta); err != nil {
			return fmt.Errorf("error storing feeds meta: %w", err)
		}
	}
	if err := s.store.UpdateFeeds(ctx, res.Feeds); err != nil {
		return fmt.Errorf("error storing feeds: %w", err)
	}

	return nil
}
