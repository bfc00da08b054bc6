package ingest

import (
	"context"

	"playbill/internal/store"
)

// Store is the write side a fixture is loaded into. The graph, postgres and
// memory backends implement it.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Reset(ctx context.Context) error
	UpsertNode(ctx context.Context, n store.Node) error
	UpsertEdge(ctx context.Context, e store.Edge) error
}

type Result struct {
	NodesUpserted int
	EdgesUpserted int
	EdgesSkipped  int
	Errors        []error
}

type Options struct {
	// Reset empties the backend before loading.
	Reset bool
}
