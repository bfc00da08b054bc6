package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"playbill/internal/store"
)

// UpsertNode inserts a node or replaces the stored copy with the same uuid.
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
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (uuid) DO UPDATE
SET label = EXCLUDED.label,
    name = EXCLUDED.name,
    differentiator = EXCLUDED.differentiator,
    props = EXCLUDED.props`,
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
VALUES ($1, $2, $3, $4, $5)
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
	if _, err := c.db.ExecContext(ctx, "TRUNCATE edges, nodes"); err != nil {
		return store.Unavailable(err, "resetting tables")
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
