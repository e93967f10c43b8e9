package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jdholdren/newsync/internal/newsync"
)

// Ensure Repo implements the Store interface
var _ newsync.Store = (*Repo)(nil)

// Keeps IN (...) lists well under sqlite's bound parameter limit.
const chunkSize = 500

// Repo is the local store. Reads go straight to the pool, writes are
// serialized through a single writer.
type Repo struct {
	db *sqlx.DB
	mu *sync.Mutex
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db, mu: &sync.Mutex{}}
}

// Open connects to the sqlite database at path. ":memory:" gets a single
// connection so every caller sees the same database.
func Open(path string) (*sqlx.DB, error) {
	if path == ":memory:" {
		dbx, err := sqlx.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %s", err)
		}
		dbx.SetMaxOpenConns(1)
		return dbx, nil
	}

	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %s", err)
	}

	return dbx, nil
}

// write runs fn in a transaction while holding the writer lock, retrying the
// whole transaction if sqlite reports the database as busy.
func (r Repo) write(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := retry.WithMaxRetries(4, retry.NewFibonacci(25*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return retryable(fmt.Errorf("error starting transaction: %w", err))
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return retryable(err)
		}
		if err := tx.Commit(); err != nil {
			return retryable(fmt.Errorf("error committing transaction: %w", err))
		}

		return nil
	})
}

func retryable(err error) error {
	if isBusy(err) {
		return retry.RetryableError(err)
	}
	return err
}

func isBusy(err error) bool {
	sqliteErr := &sqlite.Error{}
	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

func chunks(ids []int64) [][]int64 {
	var out [][]int64
	for len(ids) > chunkSize {
		out = append(out, ids[:chunkSize])
		ids = ids[chunkSize:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
