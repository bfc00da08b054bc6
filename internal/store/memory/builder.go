package memory

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"playbill/internal/store"
)

// Builder assembles a Store node by node. Ids are name-based uuids, so a
// builder that adds the same nodes in the same order yields the same ids.
type Builder struct {
	s    *Store
	seq  int
	errs []error
}

func NewBuilder() *Builder {
	return &Builder{s: New()}
}

// Node adds a node and returns its uuid. Props are alternating key/value
// pairs.
func (b *Builder) Node(label store.Label, name string, props ...any) string {
	return b.node(label, name, "", props)
}

// Distinct adds a node carrying a differentiator.
func (b *Builder) Distinct(label store.Label, name, differentiator string, props ...any) string {
	return b.node(label, name, differentiator, props)
}

func (b *Builder) node(label store.Label, name, differentiator string, props []any) string {
	b.seq++
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%s/%d", label, name, b.seq))).String()
	fixture := FixtureNode{
		UUID:           id,
		Label:          string(label),
		Name:           name,
		Differentiator: differentiator,
		Props:          b.pairs(props),
	}
	if err := b.s.AddNode(fixture.Node()); err != nil {
		b.errs = append(b.errs, err)
	}
	return id
}

// Edge adds a relationship. Props are alternating key/value pairs.
func (b *Builder) Edge(rel store.RelType, from, to string, props ...any) {
	err := b.s.AddEdge(store.Edge{Type: rel, From: from, To: to, Props: store.Props(b.pairs(props))})
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Store returns the assembled store, or the first error met while building.
func (b *Builder) Store() (*Store, error) {
	if len(b.errs) > 0 {
		return nil, errors.Wrapf(b.errs[0], "building store (%d errors)", len(b.errs))
	}
	return b.s, nil
}

func (b *Builder) pairs(kv []any) map[string]any {
	props := make(map[string]any, len(kv)/2)
	if len(kv)%2 != 0 {
		b.errs = append(b.errs, errors.Newf("odd property list %v", kv))
		return props
	}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			b.errs = append(b.errs, errors.Newf("property key %v is not a string", kv[i]))
			continue
		}
		props[key] = kv[i+1]
	}
	return props
}
