// Package sqlite serves catalogue reads from a nodes/edges schema in an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"playbill/internal/store"
)

var _ store.Store = (*Client)(nil)

// snapshot opens a deferred read transaction. SQLite fixes the snapshot at
// the first read and holds it until the transaction ends.
var snapshot = &sql.TxOptions{ReadOnly: true}

type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parsing sqlite DSN")
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, store.Unavailable(err, "opening sqlite database")
	}
	// Pragmas are per connection and every connection to :memory: is its own
	// database, so the pool holds a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, store.Unavailable(err, "pinging sqlite")
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, store.Unavailable(err, pragma)
		}
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}

func (c *Client) Read(ctx context.Context, fn func(store.Reader) error) error {
	tx, err := c.db.BeginTx(ctx, snapshot)
	if err != nil {
		return store.Unavailable(err, "beginning read transaction")
	}
	defer tx.Rollback()

	if err := fn(reader{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return store.Unavailable(errors.WithStack(err), "committing read transaction")
	}
	return nil
}
