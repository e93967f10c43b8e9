package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdholdren/newsync/internal/newsync"
)

// MarkRead applies the read state locally right away and queues it for the
// next sync.
func (s *Service) MarkRead(ctx context.Context, ids []int64, read bool) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.SetItemsRead(ctx, ids, read); err != nil {
		return fmt.Errorf("error updating read state: %w", err)
	}
	if err := s.store.AddPendingRead(ctx, ids, read); err != nil {
		return fmt.Errorf("error queuing read state: %w", err)
	}
	s.updateBadge(ctx)

	return nil
}

// MarkStarred applies the starred state locally right away and queues it for
// the next sync.
func (s *Service) MarkStarred(ctx context.Context, ids []int64, starred bool) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.SetItemsStarred(ctx, ids, starred); err != nil {
		return fmt.Errorf("error updating starred state: %w", err)
	}

	enqueue := s.store.AddPendingUnstarred
	if starred {
		enqueue = s.store.AddPendingStarred
	}
	if err := enqueue(ctx, ids); err != nil {
		return fmt.Errorf("error queuing starred state: %w", err)
	}

	return nil
}

// AddFeed subscribes to the feed at url, at the root folder.
func (s *Service) AddFeed(ctx context.Context, url string) (newsync.Feed, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return newsync.Feed{}, fmt.Errorf("feed url is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	feed, err := s.remote.CreateFeed(ctx, url, 0)
	if err != nil {
		return newsync.Feed{}, fmt.Errorf("error creating feed: %w", err)
	}
	if err := s.store.UpdateFeeds(ctx, []newsync.Feed{feed}); err != nil {
		return newsync.Feed{}, fmt.Errorf("error storing feed: %w", err)
	}
	s.feedTitles.Add(feed.ID, feed.Title)
	slog.InfoContext(ctx, "feed added", "feed_id", feed.ID, "url", url)

	s.notifier.Publish(newsync.EventFeedChanged, newsync.Payload{
		newsync.KeyAdded:   []newsync.Feed{feed},
		newsync.KeyRemoved: []newsync.Feed{},
	})

	return feed, nil
}

// AddFolder creates a folder on the server and mirrors it locally.
func (s *Service) AddFolder(ctx context.Context, name string) (newsync.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return newsync.Folder{}, fmt.Errorf("folder name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	folder, err := s.remote.CreateFolder(ctx, name)
	if err != nil {
		return newsync.Folder{}, fmt.Errorf("error creating folder: %w", err)
	}
	if err := s.store.UpdateFolders(ctx, []newsync.Folder{folder}); err != nil {
		return newsync.Folder{}, fmt.Errorf("error storing folder: %w", err)
	}
	slog.InfoContext(ctx, "folder added", "folder_id", folder.ID, "name", name)

	s.notifier.Publish(newsync.EventFolderChanged, newsync.Payload{
		newsync.KeyAdded:   []newsync.Folder{folder},
		newsync.KeyRemoved: []newsync.Folder{},
	})

	return folder, nil
}
