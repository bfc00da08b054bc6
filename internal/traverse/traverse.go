// Package traverse runs bounded relationship walks over a store.Reader and
// reduces the raw paths to one entry per reachable node.
package traverse

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"playbill/internal/store"
)

// MaxHops is the deepest walk any view needs: an ancestor and its ancestor.
const MaxHops = 2

// ErrInvalidDepth is a programming error: a walk asked for an unbounded or
// inverted hop range.
var ErrInvalidDepth = errors.New("invalid traversal depth")

type Spec struct {
	Types     []store.RelType
	Direction store.Direction
	MinHops   int
	MaxHops   int
	Labels    []store.Label
	// Filter is property equality on every edge of the path.
	Filter map[string]any
}

func (s Spec) validate() error {
	if s.MinHops < 0 || s.MaxHops < 1 || s.MinHops > s.MaxHops || s.MaxHops > MaxHops {
		return errors.Wrapf(ErrInvalidDepth, "hops %d..%d (limit %d)", s.MinHops, s.MaxHops, MaxHops)
	}
	if len(s.Types) == 0 {
		return errors.Wrap(ErrInvalidDepth, "no relationship types")
	}
	return nil
}

// Step is a node reached by a walk together with the path that reached it.
type Step struct {
	Node store.Node
	Path store.Path
}

func (s Step) Depth() int {
	return s.Path.Len()
}

// Edge is the relationship that led to Node.
func (s Step) Edge() store.Edge {
	return s.Path.LastEdge()
}

// Parent is the node visited immediately before Node.
func (s Step) Parent() (store.Node, bool) {
	if len(s.Path.Nodes) < 2 {
		return store.Node{}, false
	}
	return s.Path.Nodes[len(s.Path.Nodes)-2], true
}

// Walk returns every node reachable from start within the configured hop range,
// once each. When several paths reach the same node the shortest wins, and
// among equally short paths the one with the lowest edge positions, then node
// uuids. A node reached both directly and through a sibling is therefore
// reported at its nearest point.
func Walk(ctx context.Context, r store.Reader, start string, spec Spec) ([]Step, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	paths, err := r.Match(ctx, start, store.Pattern{
		Types:     spec.Types,
		Direction: spec.Direction,
		MinHops:   spec.MinHops,
		MaxHops:   spec.MaxHops,
		Labels:    spec.Labels,
		Filter:    spec.Filter,
	})
	if err != nil {
		return nil, err
	}

	best := make(map[string]store.Path, len(paths))
	for _, path := range paths {
		if !simple(path) || path.Len() < spec.MinHops || path.Len() > spec.MaxHops {
			continue
		}
		end := path.End()
		if end.UUID == "" || (end.UUID == start && path.Len() > 0) {
			continue
		}
		current, seen := best[end.UUID]
		if !seen || shorter(path, current) {
			best[end.UUID] = path
		}
	}

	steps := make([]Step, 0, len(best))
	for _, path := range best {
		steps = append(steps, Step{Node: path.End(), Path: path})
	}
	sort.Slice(steps, func(i, j int) bool {
		return shorter(steps[i].Path, steps[j].Path)
	})
	return steps, nil
}

// Edges returns every relationship of the given types touching start, one
// entry per relationship. Unlike Walk it does not collapse several
// relationships to the same node: a person credited twice on one material
// yields two entries. Entries are ordered by relationship type, node uuid
// and edge key, independent of the order the backend returned them in.
func Edges(ctx context.Context, r store.Reader, start string, direction store.Direction, types ...store.RelType) ([]Step, error) {
	if len(types) == 0 {
		return nil, errors.Wrap(ErrInvalidDepth, "no relationship types")
	}
	paths, err := r.Match(ctx, start, store.Pattern{
		Types:     types,
		Direction: direction,
		MinHops:   1,
		MaxHops:   1,
	})
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(paths))
	for _, path := range paths {
		if path.Len() != 1 || path.End().UUID == "" {
			continue
		}
		steps = append(steps, Step{Node: path.End(), Path: path})
	}
	sort.SliceStable(steps, func(i, j int) bool {
		a, b := steps[i], steps[j]
		if a.Edge().Type != b.Edge().Type {
			return a.Edge().Type < b.Edge().Type
		}
		if a.Node.UUID != b.Node.UUID {
			return a.Node.UUID < b.Node.UUID
		}
		return a.Edge().Key() < b.Edge().Key()
	})
	return steps, nil
}

// simple reports whether a path never revisits a node.
func simple(p store.Path) bool {
	seen := make(map[string]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		if _, ok := seen[n.UUID]; ok {
			return false
		}
		seen[n.UUID] = struct{}{}
	}
	return len(p.Nodes) == len(p.Edges)+1
}

// shorter orders paths by length, then hop by hop on the edge position
// (missing last) and the node reached.
func shorter(a, b store.Path) bool {
	if a.Len() != b.Len() {
		return a.Len() < b.Len()
	}
	for i := range a.Edges {
		if c := ComparePositions(a.Edges[i].Props, b.Edges[i].Props, "position"); c != 0 {
			return c < 0
		}
		if a.Nodes[i+1].UUID != b.Nodes[i+1].UUID {
			return a.Nodes[i+1].UUID < b.Nodes[i+1].UUID
		}
	}
	return false
}

// ComparePositions compares an ordinal property of two property sets. A
// missing ordinal sorts after any present one.
func ComparePositions(a, b store.Props, key string) int {
	ap, aok := a.Int(key)
	bp, bok := b.Int(key)
	switch {
	case aok && bok:
		return compareInts(ap, bp)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
