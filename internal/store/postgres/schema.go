package postgres

import (
	"context"

	"playbill/internal/store"
)

// EnsureSchema creates the node and edge tables when they are missing. The
// statements are idempotent and run as one implicit transaction.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS nodes (
    uuid           TEXT PRIMARY KEY,
    label          TEXT NOT NULL,
    name           TEXT NOT NULL DEFAULT '',
    differentiator TEXT NOT NULL DEFAULT '',
    props          JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS edges (
    id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    rel_type TEXT NOT NULL,
    src_uuid TEXT NOT NULL REFERENCES nodes(uuid) ON DELETE CASCADE,
    dst_uuid TEXT NOT NULL REFERENCES nodes(uuid) ON DELETE CASCADE,
    props    JSONB NOT NULL DEFAULT '{}',
    edge_key TEXT NOT NULL,
    CONSTRAINT uq_edge_key UNIQUE (edge_key)
);

CREATE INDEX IF NOT EXISTS idx_nodes_label_name ON nodes (label, name, uuid);
CREATE INDEX IF NOT EXISTS idx_edges_src_type ON edges (src_uuid, rel_type);
CREATE INDEX IF NOT EXISTS idx_edges_dst_type ON edges (dst_uuid, rel_type);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return store.Unavailable(err, "ensuring schema")
	}
	return nil
}
