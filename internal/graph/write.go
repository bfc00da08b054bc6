package graph

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"playbill/internal/store"
)

// UpsertNode merges a node on its uuid and replaces its properties.
func (c *Client) UpsertNode(ctx context.Context, n store.Node) error {
	if !n.Label.Valid() {
		return errors.Newf("invalid label: %s", n.Label)
	}

	props := make(map[string]any, len(n.Props)+3)
	for key, value := range n.Props {
		props[key] = value
	}
	props["uuid"] = n.UUID
	props["name"] = n.Name
	if n.Differentiator != "" {
		props["differentiator"] = n.Differentiator
	}

	query := fmt.Sprintf("MERGE (n:%s {uuid: $uuid})\nSET n = $props", n.Label)
	params := map[string]any{"uuid": n.UUID, "props": props}
	if err := c.write(ctx, query, params); err != nil {
		return errors.Wrapf(err, "upserting node %s", n.UUID)
	}
	return nil
}

// edgeKeyProp holds Edge.Key on stored relationships so reloads merge.
const edgeKeyProp = "_key"

// UpsertEdge creates a relationship between two existing nodes. Re-running
// with the same endpoints, type and properties leaves one relationship.
func (c *Client) UpsertEdge(ctx context.Context, e store.Edge) error {
	if !store.ValidIdentifier(string(e.Type)) {
		return errors.Newf("invalid relationship type: %s", e.Type)
	}

	query := fmt.Sprintf(`
MATCH (a) WHERE a.uuid = $from
MATCH (b) WHERE b.uuid = $to
MERGE (a)-[r:%s {`+edgeKeyProp+`: $key}]->(b)
SET r += $props
`, e.Type)
	props := make(map[string]any, len(e.Props))
	for key, value := range e.Props {
		props[key] = value
	}
	params := map[string]any{
		"from":  e.From,
		"to":    e.To,
		"key":   e.Key(),
		"props": props,
	}
	if err := c.write(ctx, query, params); err != nil {
		return errors.Wrapf(err, "upserting %s edge %s->%s", e.Type, e.From, e.To)
	}
	return nil
}

// Reset deletes every node and relationship in the database.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.write(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return errors.Wrap(err, "resetting graph")
	}
	return nil
}

func (c *Client) write(ctx context.Context, query string, params map[string]any) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}
