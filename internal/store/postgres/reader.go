package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"playbill/internal/store"
)

const nodeColumns = "n.uuid, n.label, n.name, n.differentiator, n.props"

const outgoingQuery = `
SELECT e.src_uuid, e.rel_type, e.src_uuid, e.dst_uuid, e.props, ` + nodeColumns + `
FROM edges e
JOIN nodes n ON n.uuid = e.dst_uuid
WHERE e.src_uuid = ANY($1)
  AND (cardinality($2::text[]) = 0 OR e.rel_type = ANY($2))
ORDER BY e.id`

const incomingQuery = `
SELECT e.dst_uuid, e.rel_type, e.src_uuid, e.dst_uuid, e.props, ` + nodeColumns + `
FROM edges e
JOIN nodes n ON n.uuid = e.src_uuid
WHERE e.dst_uuid = ANY($1)
  AND (cardinality($2::text[]) = 0 OR e.rel_type = ANY($2))
ORDER BY e.id`

type reader struct {
	tx *sql.Tx
}

func (r reader) GetNode(ctx context.Context, id string) (store.Node, error) {
	row := r.tx.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes n WHERE n.uuid = $1", id)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Node{}, store.NotFound("node", id)
	}
	if err != nil {
		return store.Node{}, store.Unavailable(err, "getting node")
	}
	return node, nil
}

func (r reader) Nodes(ctx context.Context, label store.Label, limit int) ([]store.Node, error) {
	query := "SELECT " + nodeColumns + " FROM nodes n WHERE n.label = $1 ORDER BY n.name, n.uuid"
	args := []any{string(label)}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Unavailable(err, "listing nodes")
	}
	defer rows.Close()

	nodes := make([]store.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, store.Unavailable(err, "scanning node")
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable(err, "iterating node rows")
	}
	return nodes, nil
}

// Match expands paths one hop at a time. Each hop is a single query over the
// whole frontier, so a two-hop pattern costs at most three round trips.
func (r reader) Match(ctx context.Context, start string, pattern store.Pattern) ([]store.Path, error) {
	origin, err := r.GetNode(ctx, start)
	if errors.Is(err, store.ErrNotFound) {
		return []store.Path{}, nil
	}
	if err != nil {
		return nil, err
	}
	return store.Expand(ctx, origin, pattern, func(ctx context.Context, from []string) (map[string][]store.Hop, error) {
		return r.hops(ctx, from, pattern)
	})
}

// hops returns the admissible single-hop extensions keyed by the frontier
// node they leave from.
func (r reader) hops(ctx context.Context, from []string, pattern store.Pattern) (map[string][]store.Hop, error) {
	query := outgoingQuery
	if pattern.Direction == store.Incoming {
		query = incomingQuery
	}
	types := make([]string, 0, len(pattern.Types))
	for _, t := range pattern.Types {
		types = append(types, string(t))
	}

	rows, err := r.tx.QueryContext(ctx, query, from, types)
	if err != nil {
		return nil, store.Unavailable(err, "querying relationships")
	}
	defer rows.Close()

	hops := make(map[string][]store.Hop)
	for rows.Next() {
		var (
			near, relType string
			h             store.Hop
			edgeProps     []byte
			nodeProps     []byte
			label         string
		)
		err := rows.Scan(&near, &relType, &h.Edge.From, &h.Edge.To, &edgeProps,
			&h.Node.UUID, &label, &h.Node.Name, &h.Node.Differentiator, &nodeProps)
		if err != nil {
			return nil, store.Unavailable(err, "scanning relationship")
		}
		h.Edge.Type = store.RelType(relType)
		h.Node.Label = store.Label(label)
		if h.Edge.Props, err = decodeProps(edgeProps); err != nil {
			return nil, store.Unavailable(err, "decoding relationship properties")
		}
		if h.Node.Props, err = decodeProps(nodeProps); err != nil {
			return nil, store.Unavailable(err, "decoding node properties")
		}
		if !pattern.MatchesFilter(h.Edge) {
			continue
		}
		hops[near] = append(hops[near], h)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable(err, "iterating relationship rows")
	}
	return hops, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(s scanner) (store.Node, error) {
	var (
		node  store.Node
		label string
		props []byte
	)
	if err := s.Scan(&node.UUID, &label, &node.Name, &node.Differentiator, &props); err != nil {
		return store.Node{}, err
	}
	node.Label = store.Label(label)
	var err error
	if node.Props, err = decodeProps(props); err != nil {
		return store.Node{}, errors.Wrapf(err, "node %q properties", node.UUID)
	}
	return node, nil
}

func decodeProps(raw []byte) (store.Props, error) {
	props := store.Props{}
	if len(raw) == 0 {
		return props, nil
	}
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, errors.WithStack(err)
	}
	return props, nil
}
