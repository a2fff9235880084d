package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is what repositories run statements on: the pool, or the connection
// that holds the caller's advisory locks.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type lockConnKey struct{}

func lockConn(ctx context.Context) (*pgxpool.Conn, bool) {
	c, ok := ctx.Value(lockConnKey{}).(*pgxpool.Conn)
	return c, ok && c != nil
}

// conn picks the connection a repository call runs on. Inside WithLock it is
// the locking session, so locked work never waits on the pool for a second
// connection.
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if c, ok := lockConn(ctx); ok {
		return c
	}
	return pool
}

// AdvisoryLocker serializes work on a key across every process sharing the
// database. It takes a session-level advisory lock on one pooled connection and
// hands that connection to fn through the context. Nested WithLock calls reuse
// it, so a purchase holds exactly one connection however many keys it locks.
// Statements inside fn still autocommit one by one.
type AdvisoryLocker struct {
	db *pgxpool.Pool
}

func NewAdvisoryLocker(db *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

func (l *AdvisoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	c, held := lockConn(ctx)
	if !held {
		var err error
		c, err = l.db.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire lock connection: %w", err)
		}
		defer c.Release()
		ctx = context.WithValue(ctx, lockConnKey{}, c)
	}

	if _, err := c.Exec(ctx, `SELECT pg_advisory_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", key, err)
	}
	defer unlock(ctx, c, key)

	return fn(ctx)
}

// unlock releases key even when ctx is already cancelled. A session that may
// still hold the lock is closed so the pool never hands it out again.
func unlock(ctx context.Context, c *pgxpool.Conn, key string) {
	ctx = context.WithoutCancel(ctx)
	var released bool
	err := c.QueryRow(ctx, `SELECT pg_advisory_unlock(hashtextextended($1, 0))`, key).Scan(&released)
	if err != nil || !released {
		_ = c.Conn().Close(ctx)
	}
}
