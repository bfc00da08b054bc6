// Package hierarchy resolves the sur/sub containment chains of materials,
// productions and venues. Chains are read at most two hops in either
// direction.
package hierarchy

import (
	"context"
	"sort"

	"playbill/internal/store"
	"playbill/internal/traverse"
)

// Family names one containment relationship and the label it joins.
type Family struct {
	Rel   store.RelType
	Label store.Label
}

var (
	Materials   = Family{Rel: store.RelHasSubMaterial, Label: store.LabelMaterial}
	Productions = Family{Rel: store.RelHasSubProduction, Label: store.LabelProduction}
	Venues      = Family{Rel: store.RelHasSubVenue, Label: store.LabelVenue}
)

// Link is an ancestor chain: the nearest container and, optionally, its own
// container.
type Link struct {
	Self     store.Node
	Ancestor *Link
}

// Tree is the fixed-shape record for one node: its ancestors and two levels
// of descendants.
type Tree struct {
	Self        store.Node
	Position    *int
	Ancestor    *Link
	Descendants []Tree
}

// Resolve loads the node and both sides of its hierarchy.
func Resolve(ctx context.Context, r store.Reader, f Family, id string) (Tree, error) {
	self, err := r.GetNode(ctx, id)
	if err != nil {
		return Tree{}, err
	}
	if self.Label != f.Label {
		return Tree{}, store.NotFound(string(f.Label), id)
	}
	ancestor, err := Ancestors(ctx, r, f, id)
	if err != nil {
		return Tree{}, err
	}
	descendants, err := Descendants(ctx, r, f, id)
	if err != nil {
		return Tree{}, err
	}
	return Tree{Self: self, Ancestor: ancestor, Descendants: descendants}, nil
}

// Ancestors returns the nearest container of id and that container's own
// container, or nil when id is not contained. Should the data hold more than
// one container, the one with the lowest position wins.
func Ancestors(ctx context.Context, r store.Reader, f Family, id string) (*Link, error) {
	steps, err := traverse.Walk(ctx, r, id, traverse.Spec{
		Types:     []store.RelType{f.Rel},
		Direction: store.Incoming,
		MinHops:   1,
		MaxHops:   2,
		Labels:    []store.Label{f.Label},
	})
	if err != nil {
		return nil, err
	}

	var parent *Link
	for _, step := range steps {
		if step.Depth() == 1 {
			parent = &Link{Self: step.Node}
			break
		}
	}
	if parent == nil {
		return nil, nil
	}
	for _, step := range steps {
		if step.Depth() != 2 {
			continue
		}
		if via, ok := step.Parent(); ok && via.UUID == parent.Self.UUID {
			parent.Ancestor = &Link{Self: step.Node}
			break
		}
	}
	return parent, nil
}

// Descendants returns the immediate children of id, each carrying its own
// children. A node reachable both directly and through a sibling is attached
// only at its nearest point.
func Descendants(ctx context.Context, r store.Reader, f Family, id string) ([]Tree, error) {
	steps, err := traverse.Walk(ctx, r, id, traverse.Spec{
		Types:     []store.RelType{f.Rel},
		Direction: store.Outgoing,
		MinHops:   1,
		MaxHops:   2,
		Labels:    []store.Label{f.Label},
	})
	if err != nil {
		return nil, err
	}

	children := make([]Tree, 0)
	index := make(map[string]int)
	for _, step := range steps {
		if step.Depth() != 1 {
			continue
		}
		index[step.Node.UUID] = len(children)
		children = append(children, Tree{
			Self:        step.Node,
			Position:    step.Edge().Props.OptInt("position"),
			Descendants: make([]Tree, 0),
		})
	}
	for _, step := range steps {
		if step.Depth() != 2 {
			continue
		}
		via, ok := step.Parent()
		if !ok {
			continue
		}
		i, ok := index[via.UUID]
		if !ok {
			continue
		}
		children[i].Descendants = append(children[i].Descendants, Tree{
			Self:        step.Node,
			Position:    step.Edge().Props.OptInt("position"),
			Descendants: make([]Tree, 0),
		})
	}

	Sort(children)
	for i := range children {
		Sort(children[i].Descendants)
	}
	return children, nil
}

// Sort orders trees by position (absent last), then name, then uuid.
func Sort(trees []Tree) {
	sort.SliceStable(trees, func(i, j int) bool {
		a, b := trees[i], trees[j]
		switch {
		case a.Position != nil && b.Position != nil && *a.Position != *b.Position:
			return *a.Position < *b.Position
		case a.Position != nil && b.Position == nil:
			return true
		case a.Position == nil && b.Position != nil:
			return false
		}
		if a.Self.Name != b.Self.Name {
			return a.Self.Name < b.Self.Name
		}
		return a.Self.UUID < b.Self.UUID
	})
}

// Related returns every uuid in the hierarchy of id within two hops: id
// itself, its ancestors and its descendants.
func Related(ctx context.Context, r store.Reader, f Family, id string) (map[string]struct{}, error) {
	related := map[string]struct{}{id: {}}
	for _, dir := range []store.Direction{store.Incoming, store.Outgoing} {
		steps, err := traverse.Walk(ctx, r, id, traverse.Spec{
			Types:     []store.RelType{f.Rel},
			Direction: dir,
			MinHops:   1,
			MaxHops:   2,
			Labels:    []store.Label{f.Label},
		})
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			related[step.Node.UUID] = struct{}{}
		}
	}
	return related, nil
}

// ExcludeContainers drops every id that contains, within two hops, another
// id of the set. What remains keeps its input order. A sub-production and its
// container both associated with one entity therefore surface once, as the
// sub-production.
func ExcludeContainers(ctx context.Context, r store.Reader, f Family, ids []string) ([]string, error) {
	present := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		present[id] = struct{}{}
	}

	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		steps, err := traverse.Walk(ctx, r, id, traverse.Spec{
			Types:     []store.RelType{f.Rel},
			Direction: store.Outgoing,
			MinHops:   1,
			MaxHops:   2,
			Labels:    []store.Label{f.Label},
		})
		if err != nil {
			return nil, err
		}
		container := false
		for _, step := range steps {
			if _, ok := present[step.Node.UUID]; ok {
				container = true
				break
			}
		}
		if !container {
			kept = append(kept, id)
		}
	}
	return kept, nil
}
