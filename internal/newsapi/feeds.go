package newsapi

import (
	"context"
	"net/http"

	nserrs "github.com/jdholdren/newsync/internal/errors"
	"github.com/jdholdren/newsync/internal/newsync"
)

func (c *Client) Folders(ctx context.Context) ([]newsync.Folder, error) {
	var resp foldersResp
	if err := c.do(ctx, http.MethodGet, "/folders", nil, nil, &resp); err != nil {
		return nil, err
	}

	folders := make([]newsync.Folder, 0, len(resp.Folders))
	for _, f := range resp.Folders {
		folders = append(folders, f.folder())
	}

	return folders, nil
}

func (c *Client) CreateFolder(ctx context.Context, name string) (newsync.Folder, error) {
	var resp foldersResp
	if err := c.do(ctx, http.MethodPost, "/folders", nil, createFolderReq{Name: name}, &resp); err != nil {
		return newsync.Folder{}, err
	}
	if len(resp.Folders) == 0 {
		return newsync.Folder{}, nserrs.E(nserrs.KindDecode, http.StatusOK, "no folder in create response")
	}

	return resp.Folders[0].folder(), nil
}

func (c *Client) Feeds(ctx context.Context) (newsync.FeedsResult, error) {
	var resp feedsResp
	if err := c.do(ctx, http.MethodGet, "/feeds", nil, nil, &resp); err != nil {
		return newsync.FeedsResult{}, err
	}

	feeds := make([]newsync.Feed, 0, len(resp.Feeds))
	for _, f := range resp.Feeds {
		feeds = append(feeds, f.feed())
	}

	return newsync.FeedsResult{
		Feeds:        feeds,
		NewestItemID: resp.NewestItemID,
		StarredCount: resp.StarredCount,
	}, nil
}

func (c *Client) CreateFeed(ctx context.Context, url string, folderID int64) (newsync.Feed, error) {
	var resp feedsResp
	if err := c.do(ctx, http.MethodPost, "/feeds", nil, createFeedReq{URL: url, FolderID: folderID}, &resp); err != nil {
		return newsync.Feed{}, err
	}
	if len(resp.Feeds) == 0 {
		return newsync.Feed{}, nserrs.E(nserrs.KindDecode, http.StatusOK, "no feed in create response")
	}

	return resp.Feeds[0].feed(), nil
}
