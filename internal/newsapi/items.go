package newsapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jdholdren/newsync/internal/newsync"
)

// Items lists items matching the query.
func (c *Client) Items(ctx context.Context, q newsync.ItemsQuery) (newsync.ItemsResult, error) {
	params := url.Values{}
	params.Set("type", strconv.Itoa(int(q.Type)))
	params.Set("getRead", strconv.FormatBool(q.GetRead))
	params.Set("batchSize", strconv.Itoa(q.BatchSize))
	if q.Offset != 0 {
		params.Set("id", strconv.FormatInt(q.Offset, 10))
	}
	if q.LastModified != 0 {
		params.Set("lastModified", strconv.FormatInt(q.LastModified, 10))
	}

	var resp itemsResp
	if err := c.do(ctx, http.MethodGet, "/items", params, nil, &resp); err != nil {
		return newsync.ItemsResult{}, err
	}

	return newsync.ItemsResult{
		Items:        items(resp.Items),
		NewestItemID: resp.NewestItemID,
	}, nil
}

// UpdatedItems lists every item of the type modified after lastModified.
func (c *Client) UpdatedItems(ctx context.Context, lastModified int64, typ newsync.ItemType) ([]newsync.Item, error) {
	params := url.Values{}
	params.Set("lastModified", strconv.FormatInt(lastModified, 10))
	params.Set("type", strconv.Itoa(int(typ)))
	params.Set("id", "0")

	var resp itemsResp
	if err := c.do(ctx, http.MethodGet, "/items/updated", params, nil, &resp); err != nil {
		return nil, err
	}

	return items(resp.Items), nil
}

func (c *Client) MarkRead(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPut, "/items/read/multiple", nil, idsReq{Items: ids}, nil)
}

func (c *Client) MarkUnread(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPut, "/items/unread/multiple", nil, idsReq{Items: ids}, nil)
}

func (c *Client) MarkStarred(ctx context.Context, refs []newsync.StarRef) error {
	return c.do(ctx, http.MethodPut, "/items/starred/multiple", nil, refsReq{Items: refs}, nil)
}

func (c *Client) MarkUnstarred(ctx context.Context, refs []newsync.StarRef) error {
	return c.do(ctx, http.MethodPut, "/items/unstarred/multiple", nil, refsReq{Items: refs}, nil)
}

func items(resp []itemResp) []newsync.Item {
	out := make([]newsync.Item, 0, len(resp))
	for _, i := range resp {
		out = append(out, i.item())
	}
	return out
}
