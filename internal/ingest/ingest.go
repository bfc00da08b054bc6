// Package ingest loads YAML catalogue fixtures into a graph backend.
package ingest

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"playbill/internal/store"
	"playbill/internal/store/memory"
)

// Run upserts every fixture node, then every edge. Bad entries are recorded
// in Result.Errors and skipped; an edge touching a rejected node is skipped
// too. Only schema and reset failures abort the load.
func Run(ctx context.Context, db Store, fixture *memory.Fixture, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "ensure schema")
	}
	if options.Reset {
		if err := db.Reset(ctx); err != nil {
			return nil, errors.Wrap(err, "reset")
		}
	}

	result := &Result{}
	rejected := make(map[string]bool)

	for i, entry := range fixture.Nodes {
		node := entry.Node()
		if err := checkNode(node); err != nil {
			result.Errors = append(result.Errors, errors.Wrapf(err, "node %d", i))
			rejected[node.UUID] = true
			continue
		}
		if err := db.UpsertNode(ctx, node); err != nil {
			result.Errors = append(result.Errors, errors.Wrapf(err, "upserting node %s", node.UUID))
			rejected[node.UUID] = true
			continue
		}
		result.NodesUpserted++
	}

	for i, entry := range fixture.Edges {
		edge := entry.Edge()
		if rejected[edge.From] || rejected[edge.To] {
			result.EdgesSkipped++
			continue
		}
		if !store.ValidIdentifier(string(edge.Type)) {
			result.Errors = append(result.Errors, errors.Newf("edge %d: invalid relationship type %q", i, edge.Type))
			continue
		}
		if err := db.UpsertEdge(ctx, edge); err != nil {
			result.Errors = append(result.Errors, errors.Wrapf(err, "upserting %s edge %d", edge.Type, i))
			continue
		}
		result.EdgesUpserted++
	}

	return result, nil
}

func checkNode(n store.Node) error {
	if _, err := uuid.Parse(n.UUID); err != nil {
		return errors.Wrapf(err, "uuid %q", n.UUID)
	}
	if !n.Label.Valid() {
		return errors.Newf("unknown label %q", n.Label)
	}
	return nil
}
