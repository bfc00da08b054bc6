// Package memory holds a whole catalogue graph in process. It backs tests and
// the fixture-driven CLI mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"playbill/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	nodes map[string]store.Node
	out   map[string][]store.Edge
	in    map[string][]store.Edge
}

func New() *Store {
	return &Store{
		nodes: make(map[string]store.Node),
		out:   make(map[string][]store.Edge),
		in:    make(map[string][]store.Edge),
	}
}

// AddNode registers a node. The uuid must parse and be unused.
func (s *Store) AddNode(n store.Node) error {
	if _, err := uuid.Parse(n.UUID); err != nil {
		return errors.Wrapf(err, "node %q", n.UUID)
	}
	if !n.Label.Valid() {
		return errors.Newf("node %q: unknown label %q", n.UUID, n.Label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.UUID]; exists {
		return errors.Newf("node %q already exists", n.UUID)
	}
	if n.Props == nil {
		n.Props = store.Props{}
	}
	s.nodes[n.UUID] = n
	return nil
}

// AddEdge registers a relationship between two existing nodes.
func (s *Store) AddEdge(e store.Edge) error {
	if !store.ValidIdentifier(string(e.Type)) {
		return errors.Newf("invalid relationship type: %s", e.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[e.From]; !ok {
		return errors.Newf("edge %s: unknown source %q", e.Type, e.From)
	}
	if _, ok := s.nodes[e.To]; !ok {
		return errors.Newf("edge %s: unknown target %q", e.Type, e.To)
	}
	if e.Props == nil {
		e.Props = store.Props{}
	}
	s.out[e.From] = append(s.out[e.From], e)
	s.in[e.To] = append(s.in[e.To], e)
	return nil
}

// UpsertNode adds a node or replaces the stored node with the same uuid.
func (s *Store) UpsertNode(ctx context.Context, n store.Node) error {
	s.mu.RLock()
	_, exists := s.nodes[n.UUID]
	s.mu.RUnlock()
	if !exists {
		return s.AddNode(n)
	}
	if !n.Label.Valid() {
		return errors.Newf("node %q: unknown label %q", n.UUID, n.Label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n.Props == nil {
		n.Props = store.Props{}
	}
	s.nodes[n.UUID] = n
	return nil
}

// UpsertEdge adds a relationship unless one with the same key exists.
func (s *Store) UpsertEdge(ctx context.Context, e store.Edge) error {
	s.mu.RLock()
	for _, existing := range s.out[e.From] {
		if existing.Key() == e.Key() {
			s.mu.RUnlock()
			return nil
		}
	}
	s.mu.RUnlock()
	return s.AddEdge(e)
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]store.Node)
	s.out = make(map[string][]store.Edge)
	s.in = make(map[string][]store.Edge)
	return nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	return nil
}

// Read holds the read lock for the whole callback, so fn observes one state.
func (s *Store) Read(ctx context.Context, fn func(store.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable(err, "memory read")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reader{s: s})
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

type reader struct {
	s *Store
}

func (r reader) GetNode(ctx context.Context, id string) (store.Node, error) {
	node, ok := r.s.nodes[id]
	if !ok {
		return store.Node{}, store.NotFound("node", id)
	}
	return node, nil
}

func (r reader) Nodes(ctx context.Context, label store.Label, limit int) ([]store.Node, error) {
	nodes := make([]store.Node, 0)
	for _, node := range r.s.nodes {
		if node.Label == label {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].UUID < nodes[j].UUID
	})
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

func (r reader) Match(ctx context.Context, start string, pattern store.Pattern) ([]store.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable(err, "memory match")
	}
	origin, ok := r.s.nodes[start]
	if !ok {
		return []store.Path{}, nil
	}

	paths := make([]store.Path, 0)
	visited := map[string]bool{start: true}
	var walk func(current store.Path)
	walk = func(current store.Path) {
		depth := current.Len()
		end := current.End()
		if depth >= pattern.MinHops && pattern.AcceptsLabel(end.Label) {
			paths = append(paths, clonePath(current))
		}
		if depth == pattern.MaxHops {
			return
		}
		for _, edge := range r.adjacent(end.UUID, pattern.Direction) {
			if !pattern.AcceptsType(edge.Type) || !pattern.MatchesFilter(edge) {
				continue
			}
			next := edge.To
			if pattern.Direction == store.Incoming {
				next = edge.From
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(store.Path{
				Nodes: append(current.Nodes, r.s.nodes[next]),
				Edges: append(current.Edges, edge),
			})
			visited[next] = false
		}
	}
	walk(store.Path{Nodes: []store.Node{origin}})
	return paths, nil
}

func (r reader) adjacent(id string, direction store.Direction) []store.Edge {
	if direction == store.Incoming {
		return r.s.in[id]
	}
	return r.s.out[id]
}

func clonePath(p store.Path) store.Path {
	return store.Path{
		Nodes: append([]store.Node(nil), p.Nodes...),
		Edges: append([]store.Edge(nil), p.Edges...),
	}
}
