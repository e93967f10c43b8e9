package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jdholdren/newsync/internal/newsync"
)

func (r Repo) AllFolders(ctx context.Context) ([]newsync.Folder, error) {
	const q = `SELECT id, name FROM folders ORDER BY id;`

	folders := []newsync.Folder{}
	if err := r.db.SelectContext(ctx, &folders, q); err != nil {
		return nil, fmt.Errorf("error selecting all folders: %s", err)
	}

	return folders, nil
}

func (r Repo) UpdateFolders(ctx context.Context, folders []newsync.Folder) error {
	if len(folders) == 0 {
		return nil
	}

	const q = `INSERT INTO folders (id, name) VALUES (:id, :name)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name;`
	if err := r.upsertEach(ctx, q, len(folders), func(i int) any { return folders[i] }); err != nil {
		return fmt.Errorf("error updating folders: %w", err)
	}

	return nil
}

func (r Repo) DeleteFolders(ctx context.Context, ids []int64) error {
	if _, err := r.deleteIn(ctx, "folders", "id", ids); err != nil {
		return fmt.Errorf("error deleting folders: %w", err)
	}

	return nil
}

func (r Repo) AllFeeds(ctx context.Context) ([]newsync.Feed, error) {
	const q = `SELECT id, title, folder_id, url FROM feeds ORDER BY id;`

	feeds := []newsync.Feed{}
	if err := r.db.SelectContext(ctx, &feeds, q); err != nil {
		return nil, fmt.Errorf("error selecting all feeds: %s", err)
	}

	return feeds, nil
}

func (r Repo) Feed(ctx context.Context, id int64) (newsync.Feed, error) {
	const q = `SELECT id, title, folder_id, url FROM feeds WHERE id = ?;`

	var feed newsync.Feed
	err := r.db.GetContext(ctx, &feed, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return newsync.Feed{}, newsync.ErrNotFound
	}
	if err != nil {
		return newsync.Feed{}, fmt.Errorf("error fetching feed: %s", err)
	}

	return feed, nil
}

func (r Repo) UpdateFeeds(ctx context.Context, feeds []newsync.Feed) error {
	if len(feeds) == 0 {
		return nil
	}

	const q = `INSERT INTO feeds (id, title, folder_id, url) VALUES (:id, :title, :folder_id, :url)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		folder_id = excluded.folder_id,
		url = excluded.url;`
	if err := r.upsertEach(ctx, q, len(feeds), func(i int) any { return feeds[i] }); err != nil {
		return fmt.Errorf("error updating feeds: %w", err)
	}

	return nil
}

func (r Repo) DeleteFeeds(ctx context.Context, ids []int64) error {
	if _, err := r.deleteIn(ctx, "feeds", "id", ids); err != nil {
		return fmt.Errorf("error deleting feeds: %w", err)
	}

	return nil
}

func (r Repo) FeedsMeta(ctx context.Context) (newsync.FeedsMeta, error) {
	const q = `SELECT newest_item_id, starred_count FROM feeds_meta WHERE id = 1;`

	var meta newsync.FeedsMeta
	err := r.db.GetContext(ctx, &meta, q)
	if errors.Is(err, sql.ErrNoRows) {
		return newsync.FeedsMeta{}, newsync.ErrNotFound
	}
	if err != nil {
		return newsync.FeedsMeta{}, fmt.Errorf("error fetching feeds meta: %s", err)
	}

	return meta, nil
}

// UpdateFeedsMeta overwrites the singleton meta record.
func (r Repo) UpdateFeedsMeta(ctx context.Context, meta newsync.FeedsMeta) error {
	const q = `INSERT INTO feeds_meta (id, newest_item_id, starred_count) VALUES (1, :newest_item_id, :starred_count)
	ON CONFLICT(id) DO UPDATE SET
		newest_item_id = excluded.newest_item_id,
		starred_count = excluded.starred_count;`

	err := r.write(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, q, meta)
		return err
	})
	if err != nil {
		return fmt.Errorf("error updating feeds meta: %w", err)
	}

	return nil
}

// upsertEach runs the named statement q once per element in one transaction.
func (r Repo) upsertEach(ctx context.Context, q string, n int, elem func(i int) any) error {
	return r.write(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, q)
		if err != nil {
			return fmt.Errorf("error preparing statement: %w", err)
		}
		defer stmt.Close()

		for i := 0; i < n; i++ {
			if _, err := stmt.ExecContext(ctx, elem(i)); err != nil {
				return err
			}
		}

		return nil
	})
}
