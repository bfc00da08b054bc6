package sqlite

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"playbill/internal/store"
)

// UpsertNode inserts a node or replaces the stored copy with the same uuid.
// The update happens in place so edges referencing the node survive.
func (c *Client) UpsertNode(ctx context.Context, n store.Node) error {
	if !n.Label.Valid() {
		return errors.Newf("invalid label: %s", n.Label)
	}
	props, err := encodeProps(n.Props)
	if err != nil {
		return errors.Wrapf(err, "encoding node %s", n.UUID)
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO nodes (uuid, label, name, differentiator, props)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (uuid) DO UPDATE SET
		label = excluded.label,
		name = excluded.name,
		differentiator = excluded.differentiator,
		props = excluded.props`,
		n.UUID, string(n.Label), n.Name, n.Differentiator, props,
	)
	if err != nil {
		return store.Unavailable(err, "upserting node")
	}
	return nil
}

// UpsertEdge inserts a relationship unless an identical one is stored.
func (c *Client) UpsertEdge(ctx context.Context, e store.Edge) error {
	if !store.ValidIdentifier(string(e.Type)) {
		return errors.Newf("invalid relationship type: %s", e.Type)
	}
	props, err := encodeProps(e.Props)
	if err != nil {
		return errors.Wrapf(err, "encoding %s edge", e.Type)
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO edges (rel_type, src_uuid, dst_uuid, props, edge_key)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (edge_key) DO NOTHING`,
		string(e.Type), e.From, e.To, props, e.Key(),
	)
	if err != nil {
		return store.Unavailable(err, "upserting edge")
	}
	return nil
}

// Reset empties both tables.
func (c *Client) Reset(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Unavailable(err, "beginning reset")
	}
	defer tx.Rollback()

	for _, table := range []string{"edges", "nodes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return store.Unavailable(err, "clearing "+table)
		}
	}
	if err := tx.Commit(); err != nil {
		return store.Unavailable(err, "committing reset")
	}
	return nil
}

func encodeProps(props store.Props) (string, error) {
	if len(props) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(raw), nil
}
