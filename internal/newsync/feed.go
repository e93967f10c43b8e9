package newsync

type (
	Folder struct {
		ID   int64  `db:"id" json:"id"`
		Name string `db:"name" json:"name"`
	}

	// Feed is a subscription. FolderID is zero for feeds at the root.
	Feed struct {
		ID       int64  `db:"id" json:"id"`
		Title    string `db:"title" json:"title"`
		FolderID int64  `db:"folder_id" json:"folderId"`
		URL      string `db:"url" json:"url"`
	}

	// FeedsMeta is the singleton bookkeeping record returned alongside feeds.
	FeedsMeta struct {
		NewestItemID int64 `db:"newest_item_id" json:"newestItemId"`
		StarredCount int64 `db:"starred_count" json:"starredCount"`
	}

	FeedsResult struct {
		Feeds        []Feed
		NewestItemID *int64
		StarredCount *int64
	}

	// FolderKey is the tuple two folders are compared by when diffing.
	FolderKey struct {
		ID   int64
		Name string
	}

	// FeedKey is the tuple two feeds are compared by when diffing. A feed that
	// was renamed or moved has a different key under the same id.
	FeedKey struct {
		ID       int64
		Title    string
		FolderID int64
	}
)

func (f Folder) DiffKey() FolderKey {
	return FolderKey{ID: f.ID, Name: f.Name}
}

func (f Feed) DiffKey() FeedKey {
	return FeedKey{ID: f.ID, Title: f.Title, FolderID: f.FolderID}
}

// Meta returns the feeds metadata when the server sent both halves of it.
func (r FeedsResult) Meta() (FeedsMeta, bool) {
	if r.NewestItemID == nil || r.StarredCount == nil {
		return FeedsMeta{}, false
	}

	return FeedsMeta{NewestItemID: *r.NewestItemID, StarredCount: *r.StarredCount}, true
}
