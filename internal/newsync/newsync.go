// Package newsync holds the domain types shared by the local store, the remote
// News API adapter, and the sync orchestrator.
package newsync

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("resource not found")
)

type (
	// Store is the locally cached copy of the server state plus the queues of
	// flag changes that haven't been acknowledged by the server yet.
	Store interface {
		HasItems(ctx context.Context) (bool, error)
		AllItems(ctx context.Context) ([]Item, error)
		ItemsByIDs(ctx context.Context, ids []int64) ([]Item, error)
		// UpdateItems upserts by id and returns the items that did not exist before.
		UpdateItems(ctx context.Context, items []Item) ([]Item, error)
		DeleteItems(ctx context.Context, ids []int64) error
		DeleteItemsByFeeds(ctx context.Context, feedIDs []int64) (int64, error)
		SetItemsRead(ctx context.Context, ids []int64, read bool) error
		SetItemsStarred(ctx context.Context, ids []int64, starred bool) error
		UnreadCount(ctx context.Context) (int, error)
		// LastModified is the watermark: the largest lastModified across all items.
		LastModified(ctx context.Context) (int64, error)

		AllFolders(ctx context.Context) ([]Folder, error)
		UpdateFolders(ctx context.Context, folders []Folder) error
		DeleteFolders(ctx context.Context, ids []int64) error

		AllFeeds(ctx context.Context) ([]Feed, error)
		Feed(ctx context.Context, id int64) (Feed, error)
		UpdateFeeds(ctx context.Context, feeds []Feed) error
		DeleteFeeds(ctx context.Context, ids []int64) error

		FeedsMeta(ctx context.Context) (FeedsMeta, error)
		UpdateFeedsMeta(ctx context.Context, meta FeedsMeta) error

		AddPendingRead(ctx context.Context, ids []int64, read bool) error
		PendingRead(ctx context.Context) ([]PendingRead, error)
		ClearPendingRead(ctx context.Context, flushed []PendingRead) error

		AddPendingStarred(ctx context.Context, ids []int64) error
		PendingStarred(ctx context.Context) ([]int64, error)
		ClearPendingStarred(ctx context.Context, ids []int64) error

		AddPendingUnstarred(ctx context.Context, ids []int64) error
		PendingUnstarred(ctx context.Context) ([]int64, error)
		ClearPendingUnstarred(ctx context.Context, ids []int64) error

		PendingCounts(ctx context.Context) (PendingCounts, error)
	}

	// Remote is the server side of the sync: one call per server capability.
	//
	// Failures are classified with the kinds in the errors package.
	Remote interface {
		Items(ctx context.Context, q ItemsQuery) (ItemsResult, error)
		UpdatedItems(ctx context.Context, lastModified int64, typ ItemType) ([]Item, error)
		Folders(ctx context.Context) ([]Folder, error)
		CreateFolder(ctx context.Context, name string) (Folder, error)
		Feeds(ctx context.Context) (FeedsResult, error)
		CreateFeed(ctx context.Context, url string, folderID int64) (Feed, error)
		MarkRead(ctx context.Context, ids []int64) error
		MarkUnread(ctx context.Context, ids []int64) error
		MarkStarred(ctx context.Context, refs []StarRef) error
		MarkUnstarred(ctx context.Context, refs []StarRef) error
	}

	// Notifier is a fire and forget event sink.
	Notifier interface {
		Publish(name EventName, payload Payload)
	}

	// Badge shows the unread count somewhere the user can see it. A count of
	// zero clears it.
	Badge interface {
		Set(count int)
	}
)
