package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/jdholdren/newsync/internal/newsync"
)

var itemColumns = []string{
	"id", "feed_id", "guid_hash", "title", "url", "author", "body",
	"pub_date", "last_modified", "is_read", "is_starred",
}

func (r Repo) HasItems(ctx context.Context) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM items);`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, q); err != nil {
		return false, fmt.Errorf("error checking for items: %s", err)
	}

	return exists, nil
}

func (r Repo) AllItems(ctx context.Context) ([]newsync.Item, error) {
	query, args, err := sq.Select(itemColumns...).From("items").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	items := []newsync.Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("error selecting all items: %s", err)
	}

	return items, nil
}

// UnreadItems lists unread items, newest first.
func (r Repo) UnreadItems(ctx context.Context) ([]newsync.Item, error) {
	return r.itemsWhere(ctx, sq.Eq{"is_read": false})
}

// StarredItems lists starred items, newest first.
func (r Repo) StarredItems(ctx context.Context) ([]newsync.Item, error) {
	return r.itemsWhere(ctx, sq.Eq{"is_starred": true})
}

func (r Repo) itemsWhere(ctx context.Context, pred sq.Eq) ([]newsync.Item, error) {
	query, args, err := sq.Select(itemColumns...).From("items").Where(pred).OrderBy("pub_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	items := []newsync.Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("error selecting items: %s", err)
	}

	return items, nil
}

func (r Repo) ItemsByIDs(ctx context.Context, ids []int64) ([]newsync.Item, error) {
	items := []newsync.Item{}
	for _, chunk := range chunks(ids) {
		query, args, err := sq.Select(itemColumns...).From("items").Where(sq.Eq{"id": chunk}).OrderBy("id").ToSql()
		if err != nil {
			return nil, fmt.Errorf("error constructing sql: %s", err)
		}

		var page []newsync.Item
		if err := r.db.SelectContext(ctx, &page, query, args...); err != nil {
			return nil, fmt.Errorf("error fetching items: %s", err)
		}
		items = append(items, page...)
	}

	return items, nil
}

// UpdateItems upserts the items by id. The returned slice holds the items
// whose id wasn't in the store before the call, in the order given.
func (r Repo) UpdateItems(ctx context.Context, items []newsync.Item) ([]newsync.Item, error) {
	if len(items) == 0 {
		return []newsync.Item{}, nil
	}

	const q = `INSERT INTO items (id, feed_id, guid_hash, title, url, author, body, pub_date, last_modified, is_read, is_starred)
	VALUES (:id, :feed_id, :guid_hash, :title, :url, :author, :body, :pub_date, :last_modified, :is_read, :is_starred)
	ON CONFLICT(id) DO UPDATE SET
		feed_id = excluded.feed_id,
		guid_hash = excluded.guid_hash,
		title = excluded.title,
		url = excluded.url,
		author = excluded.author,
		body = excluded.body,
		pub_date = excluded.pub_date,
		last_modified = excluded.last_modified,
		is_read = excluded.is_read,
		is_starred = excluded.is_starred;`

	var inserted []newsync.Item
	err := r.write(ctx, func(tx *sqlx.Tx) error {
		inserted = []newsync.Item{}

		ids := make([]int64, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		existing, err := existingItemIDs(ctx, tx, ids)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareNamedContext(ctx, q)
		if err != nil {
			return fmt.Errorf("error preparing item upsert: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			if _, err := stmt.ExecContext(ctx, item); err != nil {
				return fmt.Errorf("error upserting item %d: %w", item.ID, err)
			}
			if _, ok := existing[item.ID]; !ok {
				inserted = append(inserted, item)
				existing[item.ID] = struct{}{}
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error updating items: %w", err)
	}

	return inserted, nil
}

func existingItemIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{}, len(ids))
	for _, chunk := range chunks(ids) {
		query, args, err := sq.Select("id").From("items").Where(sq.Eq{"id": chunk}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("error constructing sql: %w", err)
		}

		var found []int64
		if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
			return nil, fmt.Errorf("error fetching existing item ids: %w", err)
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}

	return existing, nil
}

func (r Repo) DeleteItems(ctx context.Context, ids []int64) error {
	if _, err := r.deleteIn(ctx, "items", "id", ids); err != nil {
		return fmt.Errorf("error deleting items: %w", err)
	}

	return nil
}

// DeleteItemsByFeeds removes every item belonging to the feeds and reports how
// many went.
func (r Repo) DeleteItemsByFeeds(ctx context.Context, feedIDs []int64) (int64, error) {
	n, err := r.deleteIn(ctx, "items", "feed_id", feedIDs)
	if err != nil {
		return 0, fmt.Errorf("error deleting items by feed: %w", err)
	}

	return n, nil
}

func (r Repo) SetItemsRead(ctx context.Context, ids []int64, read bool) error {
	if err := r.updateIn(ctx, "is_read", read, ids); err != nil {
		return fmt.Errorf("error marking items read: %w", err)
	}

	return nil
}

func (r Repo) SetItemsStarred(ctx context.Context, ids []int64, starred bool) error {
	if err := r.updateIn(ctx, "is_starred", starred, ids); err != nil {
		return fmt.Errorf("error marking items starred: %w", err)
	}

	return nil
}

func (r Repo) updateIn(ctx context.Context, column string, value bool, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	return r.write(ctx, func(tx *sqlx.Tx) error {
		for _, chunk := range chunks(ids) {
			query, args, err := sq.Update("items").Set(column, value).Where(sq.Eq{"id": chunk}).ToSql()
			if err != nil {
				return fmt.Errorf("error constructing sql: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}

		return nil
	})
}

// deleteIn removes the rows of table whose column is one of ids.
func (r Repo) deleteIn(ctx context.Context, table, column string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var total int64
	err := r.write(ctx, func(tx *sqlx.Tx) error {
		total = 0
		for _, chunk := range chunks(ids) {
			query, args, err := sq.Delete(table).Where(sq.Eq{column: chunk}).ToSql()
			if err != nil {
				return fmt.Errorf("error constructing sql: %w", err)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			total += n
		}

		return nil
	})

	return total, err
}

func (r Repo) UnreadCount(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM items WHERE is_read = 0;`

	var count int
	if err := r.db.GetContext(ctx, &count, q); err != nil {
		return 0, fmt.Errorf("error counting unread items: %s", err)
	}

	return count, nil
}

func (r Repo) LastModified(ctx context.Context) (int64, error) {
	const q = `SELECT COALESCE(MAX(last_modified), 0) FROM items;`

	var lastModified int64
	if err := r.db.GetContext(ctx, &lastModified, q); err != nil {
		return 0, fmt.Errorf("error fetching last modified: %s", err)
	}

	return lastModified, nil
}
