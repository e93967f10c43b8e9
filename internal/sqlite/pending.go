package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/jdholdren/newsync/internal/newsync"
)

// AddPendingRead queues the target read state for each id. Queuing an id again
// replaces its target, so the latest intent wins.
func (r Repo) AddPendingRead(ctx context.Context, ids []int64, read bool) error {
	if len(ids) == 0 {
		return nil
	}

	const q = `INSERT INTO pending_read (item_id, read) VALUES (?, ?)
	ON CONFLICT(item_id) DO UPDATE SET read = excluded.read;`

	err := r.write(ctx, func(tx *sqlx.Tx) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, q, id, read); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error queuing read state: %w", err)
	}

	return nil
}

func (r Repo) PendingRead(ctx context.Context) ([]newsync.PendingRead, error) {
	const q = `SELECT item_id, read FROM pending_read ORDER BY seq;`

	pending := []newsync.PendingRead{}
	if err := r.db.SelectContext(ctx, &pending, q); err != nil {
		return nil, fmt.Errorf("error selecting pending read: %s", err)
	}

	return pending, nil
}

// ClearPendingRead drops the flushed records. A record whose target changed
// since the flush snapshot stays queued.
func (r Repo) ClearPendingRead(ctx context.Context, flushed []newsync.PendingRead) error {
	if len(flushed) == 0 {
		return nil
	}

	const q = `DELETE FROM pending_read WHERE item_id = ? AND read = ?;`

	err := r.write(ctx, func(tx *sqlx.Tx) error {
		for _, p := range flushed {
			if _, err := tx.ExecContext(ctx, q, p.ItemID, p.Read); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error clearing pending read: %w", err)
	}

	return nil
}

// AddPendingStarred queues the ids for starring and takes them out of the
// unstarred queue.
func (r Repo) AddPendingStarred(ctx context.Context, ids []int64) error {
	if err := r.enqueueStar(ctx, "pending_starred", "pending_unstarred", ids); err != nil {
		return fmt.Errorf("error queuing starred: %w", err)
	}

	return nil
}

func (r Repo) PendingStarred(ctx context.Context) ([]int64, error) {
	ids, err := r.queued(ctx, "pending_starred")
	if err != nil {
		return nil, fmt.Errorf("error selecting pending starred: %s", err)
	}

	return ids, nil
}

func (r Repo) ClearPendingStarred(ctx context.Context, ids []int64) error {
	if _, err := r.deleteIn(ctx, "pending_starred", "item_id", ids); err != nil {
		return fmt.Errorf("error clearing pending starred: %w", err)
	}

	return nil
}

// AddPendingUnstarred queues the ids for unstarring and takes them out of the
// starred queue.
func (r Repo) AddPendingUnstarred(ctx context.Context, ids []int64) error {
	if err := r.enqueueStar(ctx, "pending_unstarred", "pending_starred", ids); err != nil {
		return fmt.Errorf("error queuing unstarred: %w", err)
	}

	return nil
}

func (r Repo) PendingUnstarred(ctx context.Context) ([]int64, error) {
	ids, err := r.queued(ctx, "pending_unstarred")
	if err != nil {
		return nil, fmt.Errorf("error selecting pending unstarred: %s", err)
	}

	return ids, nil
}

func (r Repo) ClearPendingUnstarred(ctx context.Context, ids []int64) error {
	if _, err := r.deleteIn(ctx, "pending_unstarred", "item_id", ids); err != nil {
		return fmt.Errorf("error clearing pending unstarred: %w", err)
	}

	return nil
}

func (r Repo) PendingCounts(ctx context.Context) (newsync.PendingCounts, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM pending_read) AS read,
		(SELECT COUNT(*) FROM pending_starred) AS starred,
		(SELECT COUNT(*) FROM pending_unstarred) AS unstarred;`

	var counts newsync.PendingCounts
	if err := r.db.GetContext(ctx, &counts, q); err != nil {
		return newsync.PendingCounts{}, fmt.Errorf("error counting pending changes: %s", err)
	}

	return counts, nil
}

func (r Repo) enqueueStar(ctx context.Context, into, outOf string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (item_id) VALUES (?) ON CONFLICT(item_id) DO NOTHING;`, into)

	return r.write(ctx, func(tx *sqlx.Tx) error {
		for _, chunk := range chunks(ids) {
			query, args, err := sq.Delete(outOf).Where(sq.Eq{"item_id": chunk}).ToSql()
			if err != nil {
				return fmt.Errorf("error constructing sql: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, insert, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r Repo) queued(ctx context.Context, table string) ([]int64, error) {
	query, args, err := sq.Select("item_id").From(table).OrderBy("seq").ToSql()
	if err != nil {
		return nil, err
	}

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, err
	}

	return ids, nil
}
