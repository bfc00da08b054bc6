package store

import (
	"context"
)

// Hop is a single relationship leaving a frontier node, with the node it
// reaches.
type Hop struct {
	Edge Edge
	Node Node
}

// HopFunc returns the admissible single-hop extensions of a frontier, keyed
// by the frontier node they leave from.
type HopFunc func(ctx context.Context, frontier []string) (map[string][]Hop, error)

// Expand grows paths from origin one hop at a time, calling hops once per
// depth with every path end of the previous depth. Paths never revisit a
// node. Backends without variable-length matching build Match on it.
func Expand(ctx context.Context, origin Node, pattern Pattern, hops HopFunc) ([]Path, error) {
	paths := make([]Path, 0)
	current := []Path{{Nodes: []Node{origin}}}
	for depth := 0; len(current) > 0; depth++ {
		if depth >= pattern.MinHops {
			for _, p := range current {
				if pattern.AcceptsLabel(p.End().Label) {
					paths = append(paths, p)
				}
			}
		}
		if depth == pattern.MaxHops {
			break
		}

		next, err := hops(ctx, frontier(current))
		if err != nil {
			return nil, err
		}
		grown := make([]Path, 0)
		for _, p := range current {
			for _, h := range next[p.End().UUID] {
				if p.Visits(h.Node.UUID) {
					continue
				}
				grown = append(grown, Path{
					Nodes: append(append([]Node(nil), p.Nodes...), h.Node),
					Edges: append(append([]Edge(nil), p.Edges...), h.Edge),
				})
			}
		}
		current = grown
	}
	return paths, nil
}

func frontier(paths []Path) []string {
	seen := make(map[string]bool, len(paths))
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		id := p.End().UUID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
