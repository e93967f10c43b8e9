package newsapi

import "github.com/jdholdren/newsync/internal/newsync"

const untitled = "Untitled"

// Shapes of the News API payloads. Fields the server may leave null are
// pointers.
type (
	itemResp struct {
		ID           int64   `json:"id"`
		GUIDHash     string  `json:"guidHash"`
		URL          *string `json:"url"`
		Title        *string `json:"title"`
		Author       *string `json:"author"`
		PubDate      *int64  `json:"pubDate"`
		Body         *string `json:"body"`
		FeedID       int64   `json:"feedId"`
		Unread       bool    `json:"unread"`
		Starred      bool    `json:"starred"`
		LastModified int64   `json:"lastModified"`
	}

	itemsResp struct {
		Items        []itemResp `json:"items"`
		NewestItemID *int64     `json:"newestItemId"`
	}

	folderResp struct {
		ID   int64   `json:"id"`
		Name *string `json:"name"`
	}

	foldersResp struct {
		Folders []folderResp `json:"folders"`
	}

	feedResp struct {
		ID       int64   `json:"id"`
		URL      *string `json:"url"`
		Title    *string `json:"title"`
		FolderID *int64  `json:"folderId"`
	}

	feedsResp struct {
		Feeds        []feedResp `json:"feeds"`
		NewestItemID *int64     `json:"newestItemId"`
		StarredCount *int64     `json:"starredCount"`
	}

	idsReq struct {
		Items []int64 `json:"items"`
	}

	refsReq struct {
		Items []newsync.StarRef `json:"items"`
	}

	createFolderReq struct {
		Name string `json:"name"`
	}

	createFeedReq struct {
		URL      string `json:"url"`
		FolderID int64  `json:"folderId"`
	}
)

func (i itemResp) item() newsync.Item {
	return newsync.Item{
		ID:           i.ID,
		FeedID:       i.FeedID,
		GUIDHash:     i.GUIDHash,
		Title:        deref(i.Title, ""),
		URL:          deref(i.URL, ""),
		Author:       deref(i.Author, ""),
		Body:         deref(i.Body, ""),
		PubDate:      deref(i.PubDate, 0),
		LastModified: i.LastModified,
		IsRead:       !i.Unread,
		IsStarred:    i.Starred,
	}
}

func (f folderResp) folder() newsync.Folder {
	return newsync.Folder{ID: f.ID, Name: nonEmpty(deref(f.Name, ""))}
}

func (f feedResp) feed() newsync.Feed {
	return newsync.Feed{
		ID:       f.ID,
		Title:    nonEmpty(deref(f.Title, "")),
		FolderID: deref(f.FolderID, 0),
		URL:      deref(f.URL, ""),
	}
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

func nonEmpty(s string) string {
	if s == "" {
		return untitled
	}
	return s
}
