package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/newsync/internal/migrations"
	"github.com/jdholdren/newsync/internal/newsync"
)

func newTestRepo(t *testing.T) Repo {
	t.Helper()

	dbx, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbx.Close() })

	require.NoError(t, migrations.Run(dbx))

	return New(dbx)
}

func TestUpdateItems_ReturnsOnlyNew(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	inserted, err := repo.UpdateItems(ctx, []newsync.Item{
		{ID: 1, FeedID: 10, GUIDHash: "a", Title: "First", LastModified: 100},
		{ID: 2, FeedID: 10, GUIDHash: "b", Title: "Second", LastModified: 200},
	})
	require.NoError(t, err)
	assert.Len(t, inserted, 2)

	inserted, err = repo.UpdateItems(ctx, []newsync.Item{
		{ID: 2, FeedID: 10, GUIDHash: "b", Title: "Second, edited", LastModified: 300, IsRead: true},
		{ID: 3, FeedID: 11, GUIDHash: "c", Title: "Third", LastModified: 250},
		{ID: 3, FeedID: 11, GUIDHash: "c", Title: "Third", LastModified: 250},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, int64(3), inserted[0].ID)

	items, err := repo.AllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Second, edited", items[1].Title)
	assert.True(t, items[1].IsRead)
}

func TestUpdateItems_Empty(t *testing.T) {
	inserted, err := newTestRepo(t).UpdateItems(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestItemCounters(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	has, err := repo.HasItems(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	lastModified, err := repo.LastModified(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), lastModified)

	_, err = repo.UpdateItems(ctx, []newsync.Item{
		{ID: 1, FeedID: 10, LastModified: 100},
		{ID: 2, FeedID: 10, LastModified: 900, IsRead: true},
		{ID: 3, FeedID: 10, LastModified: 400},
	})
	require.NoError(t, err)

	has, err = repo.HasItems(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	lastModified, err = repo.LastModified(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(900), lastModified)

	count, err := repo.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.SetItemsRead(ctx, []int64{1, 3}, true))
	count, err = repo.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteItemsByFeeds(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	_, err := repo.UpdateItems(ctx, []newsync.Item{
		{ID: 1, FeedID: 10},
		{ID: 2, FeedID: 10},
		{ID: 3, FeedID: 11},
	})
	require.NoError(t, err)

	n, err := repo.DeleteItemsByFeeds(ctx, []int64{10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := repo.AllItems(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]newsync.Item{{ID: 3, FeedID: 11}}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestItemsByIDs_Chunks(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	var (
		items []newsync.Item
		ids   []int64
	)
	for i := int64(1); i <= chunkSize+20; i++ {
		items = append(items, newsync.Item{ID: i, FeedID: 1})
		ids = append(ids, i)
	}
	_, err := repo.UpdateItems(ctx, items)
	require.NoError(t, err)

	got, err := repo.ItemsByIDs(ctx, append(ids, 99999))
	require.NoError(t, err)
	assert.Len(t, got, chunkSize+20)
}

func TestFoldersAndFeeds(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	require.NoError(t, repo.UpdateFolders(ctx, []newsync.Folder{{ID: 1, Name: "Tech"}, {ID: 2, Name: "News"}}))
	require.NoError(t, repo.UpdateFolders(ctx, []newsync.Folder{{ID: 1, Name: "Technology"}}))
	require.NoError(t, repo.DeleteFolders(ctx, []int64{2}))

	folders, err := repo.AllFolders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []newsync.Folder{{ID: 1, Name: "Technology"}}, folders)

	require.NoError(t, repo.UpdateFeeds(ctx, []newsync.Feed{{ID: 5, Title: "A", FolderID: 1, URL: "https://a.example/rss"}}))
	feed, err := repo.Feed(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "A", feed.Title)

	require.NoError(t, repo.DeleteFeeds(ctx, []int64{5}))
	_, err = repo.Feed(ctx, 5)
	assert.ErrorIs(t, err, newsync.ErrNotFound)
}

func TestFeedsMeta(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	_, err := repo.FeedsMeta(ctx)
	assert.ErrorIs(t, err, newsync.ErrNotFound)

	require.NoError(t, repo.UpdateFeedsMeta(ctx, newsync.FeedsMeta{NewestItemID: 10, StarredCount: 1}))
	require.NoError(t, repo.UpdateFeedsMeta(ctx, newsync.FeedsMeta{NewestItemID: 42, StarredCount: 3}))

	meta, err := repo.FeedsMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, newsync.FeedsMeta{NewestItemID: 42, StarredCount: 3}, meta)
}

func TestPendingRead(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	require.NoError(t, repo.AddPendingRead(ctx, []int64{7, 5}, true))
	require.NoError(t, repo.AddPendingRead(ctx, []int64{9}, false))

	pending, err := repo.PendingRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, []newsync.PendingRead{
		{ItemID: 7, Read: true},
		{ItemID: 5, Read: true},
		{ItemID: 9, Read: false},
	}, pending)

	// The user flips 5 back to unread while the flush is in flight.
	require.NoError(t, repo.AddPendingRead(ctx, []int64{5}, false))
	require.NoError(t, repo.ClearPendingRead(ctx, pending))

	pending, err = repo.PendingRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, []newsync.PendingRead{{ItemID: 5, Read: false}}, pending)
}

func TestPendingStarred_Disjoint(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	require.NoError(t, repo.AddPendingStarred(ctx, []int64{1, 2}))
	require.NoError(t, repo.AddPendingUnstarred(ctx, []int64{2, 3}))
	require.NoError(t, repo.AddPendingStarred(ctx, []int64{1}))

	starred, err := repo.PendingStarred(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, starred)

	unstarred, err := repo.PendingUnstarred(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, unstarred)

	counts, err := repo.PendingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, newsync.PendingCounts{Starred: 1, Unstarred: 2}, counts)

	require.NoError(t, repo.ClearPendingUnstarred(ctx, []int64{2, 3}))
	unstarred, err = repo.PendingUnstarred(ctx)
	require.NoError(t, err)
	assert.Empty(t, unstarred)
}

func TestUnreadCount_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := New(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items WHERE is_read = 0;`).WillReturnError(errors.New("disk on fire"))

	_, err = repo.UnreadCount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error counting unread items")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllFolders_Rows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := New(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectQuery(`SELECT id, name FROM folders ORDER BY id;`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Tech").AddRow(2, "News"))

	folders, err := repo.AllFolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []newsync.Folder{{ID: 1, Name: "Tech"}, {ID: 2, Name: "News"}}, folders)
}

func TestWrite_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := New(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM folders WHERE id IN \(\?,\?\)`).WithArgs(int64(1), int64(2)).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err = repo.DeleteFolders(context.Background(), []int64{1, 2})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChunks(t *testing.T) {
	ids := make([]int64, chunkSize*2+1)
	got := chunks(ids)

	require.Len(t, got, 3)
	assert.Len(t, got[0], chunkSize)
	assert.Len(t, got[2], 1)
	assert.Empty(t, chunks(nil))
}
