package newsync

// ItemType is the server's selector for which items a listing covers.
type ItemType int

const (
	ItemTypeFeed    ItemType = 0
	ItemTypeFolder  ItemType = 1
	ItemTypeStarred ItemType = 2
	ItemTypeAll     ItemType = 3
)

// Unbounded asks the server for every matching item in one page.
const Unbounded = -1

type (
	// Item is a single article.
	Item struct {
		ID           int64  `db:"id" json:"id"`
		FeedID       int64  `db:"feed_id" json:"feedId"`
		GUIDHash     string `db:"guid_hash" json:"guidHash"`
		Title        string `db:"title" json:"title"`
		URL          string `db:"url" json:"url"`
		Author       string `db:"author" json:"author"`
		Body         string `db:"body" json:"body"`
		PubDate      int64  `db:"pub_date" json:"pubDate"`
		LastModified int64  `db:"last_modified" json:"lastModified"`
		IsRead       bool   `db:"is_read" json:"isRead"`
		IsStarred    bool   `db:"is_starred" json:"isStarred"`
	}

	// StarRef is how the server addresses an item when starring it. Ids can
	// change across server side feed refreshes, the guid hash does not.
	StarRef struct {
		FeedID   int64  `json:"feedId"`
		GUIDHash string `json:"guidHash"`
	}

	// PendingRead is a queued read state change. Read holds the target state.
	PendingRead struct {
		ItemID int64 `db:"item_id"`
		Read   bool  `db:"read"`
	}

	PendingCounts struct {
		Read      int `db:"read" json:"read"`
		Starred   int `db:"starred" json:"starred"`
		Unstarred int `db:"unstarred" json:"unstarred"`
	}

	// ItemsQuery holds the filter parameters for an item listing.
	ItemsQuery struct {
		Type      ItemType
		GetRead   bool
		BatchSize int
		// Offset is the id to page from, zero for the start.
		Offset int64
		// LastModified only lists items changed after it when non-zero.
		LastModified int64
	}

	ItemsResult struct {
		Items        []Item
		NewestItemID *int64
	}
)

// Ref returns the starring address of the item.
func (i Item) Ref() StarRef {
	return StarRef{FeedID: i.FeedID, GUIDHash: i.GUIDHash}
}
