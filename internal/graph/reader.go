package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"playbill/internal/store"
)

type reader struct {
	tx neo4j.ManagedTransaction
}

func (r reader) GetNode(ctx context.Context, id string) (store.Node, error) {
	values, err := r.collect(ctx, "MATCH (n) WHERE n.uuid = $uuid RETURN n LIMIT 1", map[string]any{"uuid": id}, "n")
	if err != nil {
		return store.Node{}, store.Unavailable(err, "getting node")
	}
	for _, value := range values {
		if n, ok := value.(neo4j.Node); ok {
			return nodeFrom(n), nil
		}
	}
	return store.Node{}, store.NotFound("node", id)
}

func (r reader) Nodes(ctx context.Context, label store.Label, limit int) ([]store.Node, error) {
	if !label.Valid() {
		return nil, errors.Newf("invalid label: %s", label)
	}
	query := fmt.Sprintf("MATCH (n:%s) RETURN n ORDER BY n.name, n.uuid", label)
	params := map[string]any{}
	if limit > 0 {
		query += " LIMIT $limit"
		params["limit"] = int64(limit)
	}

	values, err := r.collect(ctx, query, params, "n")
	if err != nil {
		return nil, store.Unavailable(err, "listing nodes")
	}
	nodes := make([]store.Node, 0, len(values))
	for _, value := range values {
		if n, ok := value.(neo4j.Node); ok {
			nodes = append(nodes, nodeFrom(n))
		}
	}
	return nodes, nil
}

func (r reader) Match(ctx context.Context, start string, pattern store.Pattern) ([]store.Path, error) {
	query, params, err := matchQuery(start, pattern)
	if err != nil {
		return nil, err
	}
	values, err := r.collect(ctx, query, params, "p")
	if err != nil {
		return nil, store.Unavailable(err, "matching pattern")
	}

	paths := make([]store.Path, 0, len(values))
	for _, value := range values {
		p, ok := value.(neo4j.Path)
		if !ok {
			continue
		}
		// Cypher keeps relationships unique along a path but may revisit
		// a node; such walks are not catalogue paths.
		if path, simple := pathFrom(p); simple {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func (r reader) collect(ctx context.Context, query string, params map[string]any, key string) ([]any, error) {
	res, err := r.tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0)
	for res.Next(ctx) {
		value, _ := res.Record().Get(key)
		values = append(values, value)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// matchQuery renders a pattern as a variable-length Cypher match. Labels,
// relationship types and filter keys are interpolated, so each is checked
// against the identifier grammar first.
func matchQuery(start string, pattern store.Pattern) (string, map[string]any, error) {
	if pattern.MinHops < 0 || pattern.MaxHops < pattern.MinHops {
		return "", nil, errors.Newf("invalid hop range %d..%d", pattern.MinHops, pattern.MaxHops)
	}

	types := make([]string, 0, len(pattern.Types))
	for _, t := range pattern.Types {
		if !store.ValidIdentifier(string(t)) {
			return "", nil, errors.Newf("invalid relationship type: %s", t)
		}
		types = append(types, string(t))
	}
	rel := "["
	if len(types) > 0 {
		rel += ":" + strings.Join(types, "|")
	}
	rel += fmt.Sprintf("*%d..%d]", pattern.MinHops, pattern.MaxHops)

	left, right := "-", "->"
	if pattern.Direction == store.Incoming {
		left, right = "<-", "-"
	}

	params := map[string]any{"uuid": start}
	conditions := make([]string, 0)

	keys := make([]string, 0, len(pattern.Filter))
	for key := range pattern.Filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		if !store.ValidIdentifier(key) {
			return "", nil, errors.Newf("invalid filter key: %s", key)
		}
		param := fmt.Sprintf("f%d", i)
		params[param] = pattern.Filter[key]
		conditions = append(conditions, fmt.Sprintf("ALL(rel IN relationships(p) WHERE rel.%s = $%s)", key, param))
	}

	if len(pattern.Labels) > 0 {
		labels := make([]string, 0, len(pattern.Labels))
		for _, l := range pattern.Labels {
			if !l.Valid() {
				return "", nil, errors.Newf("invalid label: %s", l)
			}
			labels = append(labels, "n:"+string(l))
		}
		conditions = append(conditions, "("+strings.Join(labels, " OR ")+")")
	}

	var b strings.Builder
	b.WriteString("MATCH (s) WHERE s.uuid = $uuid\n")
	fmt.Fprintf(&b, "MATCH p = (s)%s%s%s(n)\n", left, rel, right)
	if len(conditions) > 0 {
		b.WriteString("WHERE " + strings.Join(conditions, " AND ") + "\n")
	}
	b.WriteString("RETURN p\nORDER BY length(p)")
	return b.String(), params, nil
}

func nodeFrom(n neo4j.Node) store.Node {
	node := store.Node{Props: store.Props{}}
	for key, value := range n.Props {
		node.Props[key] = value
	}
	node.UUID = node.Props.String("uuid")
	node.Name = node.Props.String("name")
	node.Differentiator = node.Props.String("differentiator")
	for _, l := range n.Labels {
		if label := store.Label(l); label.Valid() {
			node.Label = label
			break
		}
	}
	return node
}

func pathFrom(p neo4j.Path) (store.Path, bool) {
	uuids := make(map[string]string, len(p.Nodes))
	seen := make(map[string]bool, len(p.Nodes))
	path := store.Path{
		Nodes: make([]store.Node, 0, len(p.Nodes)),
		Edges: make([]store.Edge, 0, len(p.Relationships)),
	}
	for _, n := range p.Nodes {
		node := nodeFrom(n)
		if seen[node.UUID] {
			return store.Path{}, false
		}
		seen[node.UUID] = true
		uuids[n.ElementId] = node.UUID
		path.Nodes = append(path.Nodes, node)
	}
	for _, r := range p.Relationships {
		props := store.Props{}
		for key, value := range r.Props {
			if key != edgeKeyProp {
				props[key] = value
			}
		}
		path.Edges = append(path.Edges, store.Edge{
			Type:  store.RelType(r.Type),
			From:  uuids[r.StartElementId],
			To:    uuids[r.EndElementId],
			Props: props,
		})
	}
	return path, true
}
