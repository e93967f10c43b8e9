package newsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nserrs "github.com/jdholdren/newsync/internal/errors"
	"github.com/jdholdren/newsync/internal/newsync"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api/v1-2/", Username: "alice", Password: "hunter2", Timeout: time.Second}, nil)
	require.NoError(t, err)

	return c
}

func TestItems_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1-2/items", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("type"))
		assert.Equal(t, "false", r.URL.Query().Get("getRead"))
		assert.Equal(t, "-1", r.URL.Query().Get("batchSize"))
		assert.False(t, r.URL.Query().Has("id"))
		assert.False(t, r.URL.Query().Has("lastModified"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "hunter2", pass)

		w.Write([]byte(`{"items":[{"id":1,"feedId":10,"guidHash":"abc","title":"Hello","unread":true,"starred":false,"lastModified":1700000000,"url":null}],"newestItemId":1}`))
	})

	res, err := c.Items(context.Background(), newsync.ItemsQuery{Type: newsync.ItemTypeAll, GetRead: false, BatchSize: newsync.Unbounded})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, newsync.Item{
		ID:           1,
		FeedID:       10,
		GUIDHash:     "abc",
		Title:        "Hello",
		LastModified: 1700000000,
		IsRead:       false,
	}, res.Items[0])
	require.NotNil(t, res.NewestItemID)
	assert.Equal(t, int64(1), *res.NewestItemID)
}

func TestUpdatedItems_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1-2/items/updated", r.URL.Path)
		assert.Equal(t, "1700000000", r.URL.Query().Get("lastModified"))
		assert.Equal(t, "3", r.URL.Query().Get("type"))
		assert.Equal(t, "0", r.URL.Query().Get("id"))

		w.Write([]byte(`{"items":[{"id":4,"feedId":2,"unread":false,"starred":true}]}`))
	})

	items, err := c.UpdatedItems(context.Background(), 1700000000, newsync.ItemTypeAll)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsRead)
	assert.True(t, items[0].IsStarred)
}

func TestFeeds_Decode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"feeds":[{"id":1,"title":"A","folderId":null,"url":"https://a.example/rss"},{"id":2,"title":"","folderId":5}],"starredCount":2,"newestItemId":90}`))
	})

	res, err := c.Feeds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []newsync.Feed{
		{ID: 1, Title: "A", FolderID: 0, URL: "https://a.example/rss"},
		{ID: 2, Title: "Untitled", FolderID: 5},
	}, res.Feeds)

	meta, ok := res.Meta()
	require.True(t, ok)
	assert.Equal(t, newsync.FeedsMeta{NewestItemID: 90, StarredCount: 2}, meta)
}

func TestFeeds_MissingMeta(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"feeds":[],"newestItemId":90}`))
	})

	res, err := c.Feeds(context.Background())
	require.NoError(t, err)
	_, ok := res.Meta()
	assert.False(t, ok)
}

func TestFolders_UntitledFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"folders":[{"id":4,"name":"Media"},{"id":5,"name":null}]}`))
	})

	folders, err := c.Folders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []newsync.Folder{{ID: 4, Name: "Media"}, {ID: 5, Name: "Untitled"}}, folders)
}

func TestPushBodies(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantPath string
		wantBody string
	}{
		{
			name:     "read",
			call:     func(c *Client) error { return c.MarkRead(context.Background(), []int64{5, 7}) },
			wantPath: "/api/v1-2/items/read/multiple",
			wantBody: `{"items":[5,7]}`,
		},
		{
			name:     "unread",
			call:     func(c *Client) error { return c.MarkUnread(context.Background(), []int64{9}) },
			wantPath: "/api/v1-2/items/unread/multiple",
			wantBody: `{"items":[9]}`,
		},
		{
			name: "starred",
			call: func(c *Client) error {
				return c.MarkStarred(context.Background(), []newsync.StarRef{{FeedID: 10, GUIDHash: "abc"}})
			},
			wantPath: "/api/v1-2/items/starred/multiple",
			wantBody: `{"items":[{"feedId":10,"guidHash":"abc"}]}`,
		},
		{
			name: "unstarred",
			call: func(c *Client) error {
				return c.MarkUnstarred(context.Background(), []newsync.StarRef{{FeedID: 11, GUIDHash: "def"}})
			},
			wantPath: "/api/v1-2/items/unstarred/multiple",
			wantBody: `{"items":[{"feedId":11,"guidHash":"def"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				byts, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantBody, string(byts))
			})

			require.NoError(t, tt.call(c))
		})
	}
}

func TestCreateFeed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1-2/feeds", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"url": "https://b.example/rss", "folderId": float64(0)}, body)

		w.Write([]byte(`{"feeds":[{"id":12,"title":"B","folderId":null,"url":"https://b.example/rss"}],"newestItemId":3}`))
	})

	feed, err := c.CreateFeed(context.Background(), "https://b.example/rss", 0)
	require.NoError(t, err)
	assert.Equal(t, newsync.Feed{ID: 12, Title: "B", URL: "https://b.example/rss"}, feed)
}

func TestCreateFolder_EmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"folders":[]}`))
	})

	_, err := c.CreateFolder(context.Background(), "Media")
	assert.True(t, nserrs.IsKind(err, nserrs.KindDecode))
}

func TestErrorClassification(t *testing.T) {
	t.Run("server 4xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.Folders(context.Background())
		var nsErr *nserrs.Error
		require.ErrorAs(t, err, &nsErr)
		assert.Equal(t, nserrs.KindServer, nsErr.Kind)
		assert.Equal(t, http.StatusUnauthorized, nsErr.Status)
		assert.True(t, nsErr.ClientError())
	})

	t.Run("server 5xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		err := c.MarkRead(context.Background(), []int64{1})
		var nsErr *nserrs.Error
		require.ErrorAs(t, err, &nsErr)
		assert.True(t, nsErr.ServerError())
	})

	t.Run("decode", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"folders": "nope"`))
		})

		_, err := c.Folders(context.Background())
		assert.True(t, nserrs.IsKind(err, nserrs.KindDecode))
	})

	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		c, err := New(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
		require.NoError(t, err)

		_, err = c.Feeds(context.Background())
		assert.True(t, nserrs.IsKind(err, nserrs.KindNetwork))
	})

	t.Run("deadline", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.Folders(ctx)
		assert.True(t, nserrs.IsKind(err, nserrs.KindNetwork))
	})
}

func TestNew_RequiresAbsoluteURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/relative"}, nil)
	assert.Error(t, err)
}

func TestFolders_Gock(t *testing.T) {
	defer gock.Off()

	gock.New("https://cloud.example.com").
		Get("/index.php/apps/news/api/v1-2/folders").
		MatchHeader("Authorization", "^Basic ").
		Reply(200).
		JSON(map[string]any{"folders": []map[string]any{{"id": 1, "name": "Tech"}}})

	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)

	c, err := New(Config{BaseURL: "https://cloud.example.com/index.php/apps/news/api/v1-2", Username: "alice", Password: "pw"}, httpClient)
	require.NoError(t, err)

	folders, err := c.Folders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []newsync.Folder{{ID: 1, Name: "Tech"}}, folders)
	assert.True(t, gock.IsDone())
}
