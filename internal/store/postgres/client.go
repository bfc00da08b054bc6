// Package postgres serves catalogue reads from a nodes/edges schema in
// PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib"

	"playbill/internal/store"
)

var _ store.Store = (*Client)(nil)

// snapshot is the transaction mode for every Read: one consistent view of the
// catalogue for the whole document.
var snapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, store.Unavailable(err, "opening postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, store.Unavailable(err, "pinging postgres")
	}
	return &Client{db: db}, nil
}

// NewWithDB wraps an already opened database handle.
func NewWithDB(db *sql.DB) *Client {
	return &Client{db: db}
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
