// Package store defines the read-only contract between the view engine and
// the property-graph backend that holds the catalogue.
package store

import (
	"context"
)

// Store opens consistent read snapshots. Every detail view is built inside a
// single Read call so that concurrent writes cannot leak into half of a
// document.
type Store interface {
	Read(ctx context.Context, fn func(Reader) error) error
	Close(ctx context.Context) error
}

// Reader executes pattern-matching queries against one snapshot.
type Reader interface {
	// GetNode returns ErrNotFound when no node carries the uuid.
	GetNode(ctx context.Context, uuid string) (Node, error)

	// Match returns every path from start that satisfies the pattern. Several
	// paths may end at the same node; callers deduplicate.
	Match(ctx context.Context, start string, pattern Pattern) ([]Path, error)

	// Nodes lists nodes carrying the label ordered by name then uuid. A limit
	// of zero means no limit.
	Nodes(ctx context.Context, label Label, limit int) ([]Node, error)
}
