package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdholdren/newsync/internal/diff"
	"github.com/jdholdren/newsync/internal/newsync"
)

type stage struct {
	name string
	run  func(ctx context.Context) error
}

// incrementalSync runs the stages strictly in order. Each stage finishes,
// successfully or not, before the next starts, and every stage runs. It
// returns the names of the stages that failed.
func (s *Service) incrementalSync(ctx context.Context) []string {
	stages := []stage{
		{name: "flush_read", run: s.flushRead},
		{name: "flush_starred", run: s.flushStarred},
		{name: "flush_unstarred", run: s.flushUnstarred},
		{name: "folders", run: s.syncFolders},
		{name: "feeds", run: s.syncFeeds},
		{name: "items", run: s.syncItems},
	}

	failed := []string{}
	for _, st := range stages {
		if err := s.runStage(ctx, st.name, st.run); err != nil {
			failed = append(failed, st.name)
		}
	}

	return failed
}

// flushRead pushes the queued read state changes, each to the endpoint
// matching its target state. Only what the server acknowledged is cleared.
func (s *Service) flushRead(ctx context.Context) error {
	pending, err := s.store.PendingRead(ctx)
	if err != nil {
		return fmt.Errorf("error listing pending read state: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var toRead, toUnread []newsync.PendingRead
	for _, p := range pending {
		if p.Read {
			toRead = append(toRead, p)
		} else {
			toUnread = append(toUnread, p)
		}
	}

	var (
		acked []newsync.PendingRead
		errs  []error
	)
	if len(toRead) > 0 {
		if err := s.remote.MarkRead(ctx, pendingIDs(toRead)); err != nil {
			errs = append(errs, fmt.Errorf("error pushing read items: %w", err))
		} else {
			acked = append(acked, toRead...)
		}
	}
	if len(toUnread) > 0 {
		if err := s.remote.MarkUnread(ctx, pendingIDs(toUnread)); err != nil {
			errs = append(errs, fmt.Errorf("error pushing unread items: %w", err))
		} else {
			acked = append(acked, toUnread...)
		}
	}

	if err := s.store.ClearPendingRead(ctx, acked); err != nil {
		errs = append(errs, fmt.Errorf("error clearing pending read state: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Service) flushStarred(ctx context.Context) error {
	return s.flushStars(ctx, s.store.PendingStarred, s.remote.MarkStarred, s.store.ClearPendingStarred)
}

func (s *Service) flushUnstarred(ctx context.Context) error {
	return s.flushStars(ctx, s.store.PendingUnstarred, s.remote.MarkUnstarred, s.store.ClearPendingUnstarred)
}

// flushStars resolves the queued ids to the (feedId, guidHash) pairs the
// server wants and pushes them. Ids whose item is gone locally are dropped
// from the queue without being pushed.
func (s *Service) flushStars(
	ctx context.Context,
	pending func(context.Context) ([]int64, error),
	push func(context.Context, []newsync.StarRef) error,
	ack func(context.Context, []int64) error,
) error {
	ids, err := pending(ctx)
	if err != nil {
		return fmt.Errorf("error listing pending changes: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	items, err := s.store.ItemsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error resolving pending items: %w", err)
	}
	refs := make([]newsync.StarRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, item.Ref())
	}
	if skipped := len(ids) - len(refs); skipped > 0 {
		slog.DebugContext(ctx, "skipping pending items missing locally", "count", skipped)
	}

	if len(refs) > 0 {
		if err := push(ctx, refs); err != nil {
			return fmt.Errorf("error pushing star state: %w", err)
		}
	}
	if err := ack(ctx, ids); err != nil {
		return fmt.Errorf("error clearing pending changes: %w", err)
	}

	return nil
}

// syncFolders reconciles the local folders with the server's.
func (s *Service) syncFolders(ctx context.Context) error {
	prev, err := s.store.AllFolders(ctx)
	if err != nil {
		return fmt.Errorf("error listing local folders: %w", err)
	}
	next, err := s.remote.Folders(ctx)
	if err != nil {
		return fmt.Errorf("error fetching folders: %w", err)
	}

	added, removed := diff.Folders(prev, next)
	if err := s.store.UpdateFolders(ctx, next); err != nil {
		return fmt.Errorf("error storing folders: %w", err)
	}
	// A renamed folder is in removed under its old name but still exists.
	gone := without(diff.IDs(removed, folderID), diff.IDs(added, folderID))
	if err := s.store.DeleteFolders(ctx, gone); err != nil {
		return fmt.Errorf("error deleting folders: %w", err)
	}

	s.notifier.Publish(newsync.EventFolderChanged, newsync.Payload{
		newsync.KeyAdded:   added,
		newsync.KeyRemoved: removed,
	})

	return nil
}

// syncFeeds reconciles the local feeds with the server's and drops the items
// of every feed that's really gone.
func (s *Service) syncFeeds(ctx context.Context) error {
	prev, err := s.store.AllFeeds(ctx)
	if err != nil {
		return fmt.Errorf("error listing local feeds: %w", err)
	}
	res, err := s.remote.Feeds(ctx)
	if err != nil {
		return fmt.Errorf("error fetching feeds: %w", err)
	}
	defer s.feedTitles.Purge()

	if meta, ok := res.Meta(); ok {
		if err := s.store.UpdateFeedsMeta(ctx, meta); err != nil {
			return fmt.Errorf("error storing feeds meta: %w", err)
		}
	}

	added, removed := diff.Feeds(prev, res.Feeds)
	removedIDs := diff.IDs(removed, feedID)
	if err := s.store.DeleteFeeds(ctx, removedIDs); err != nil {
		return fmt.Errorf("error deleting feeds: %w", err)
	}
	// A feed that was moved or renamed is in both sets and keeps its items.
	cascade := without(removedIDs, diff.IDs(added, feedID))
	n, err := s.store.DeleteItemsByFeeds(ctx, cascade)
	if err != nil {
		return fmt.Errorf("error deleting items of removed feeds: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "deleted items of removed feeds", "feeds", cascade, "items", n)
	}
	if err := s.store.UpdateFeeds(ctx, res.Feeds); err != nil {
		return fmt.Errorf("error storing feeds: %w", err)
	}

	s.notifier.Publish(newsync.EventFeedChanged, newsync.Payload{
		newsync.KeyAdded:   added,
		newsync.KeyRemoved: removed,
	})

	return nil
}

// syncItems fetches everything modified since the watermark and announces
// the items that are new to the store.
func (s *Service) syncItems(ctx context.Context) error {
	watermark, err := s.store.LastModified(ctx)
	if err != nil {
		return fmt.Errorf("error reading watermark: %w", err)
	}
	items, err := s.remote.UpdatedItems(ctx, watermark, newsync.ItemTypeAll)
	if err != nil {
		return fmt.Errorf("error fetching updated items: %w", err)
	}
	fresh, err := s.store.UpdateItems(ctx, items)
	if err != nil {
		return fmt.Errorf("error storing items: %w", err)
	}
	slog.DebugContext(ctx, "stored updated items", "updated", len(items), "new", len(fresh), "watermark", watermark)

	for _, item := range fresh {
		s.notifier.Publish(newsync.EventNewItem, newsync.Payload{
			newsync.KeyItemID:    item.ID,
			newsync.KeyFeedTitle: s.feedTitle(ctx, item.FeedID),
			newsync.KeyItemTitle: sanitize(item.Title),
		})
	}

	return nil
}

func pendingIDs(pending []newsync.PendingRead) []int64 {
	ids := make([]int64, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ItemID)
	}
	return ids
}

func folderID(f newsync.Folder) int64 { return f.ID }

func feedID(f newsync.Feed) int64 { return f.ID }

// without returns the ids not in exclude.
func without(ids, exclude []int64) []int64 {
	skip := make(map[int64]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	out := []int64{}
	for _, id := range ids {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
