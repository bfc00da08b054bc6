package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"playbill/internal/store"
)

const nodeColumns = "n.uuid, n.label, n.name, n.differentiator, n.props"

type reader struct {
	tx *sql.Tx
}

func (r reader) GetNode(ctx context.Context, id string) (store.Node, error) {
	row := r.tx.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes n WHERE n.uuid = ?", id)
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
	query := "SELECT " + nodeColumns + " FROM nodes n WHERE n.label = ? ORDER BY n.name, n.uuid"
	args := []any{string(label)}
	if limit > 0 {
		query += " LIMIT ?"
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

// Match expands paths one hop at a time, one query per hop over the whole
// frontier.
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

// hopQuery builds the single-hop query for a frontier. SQLite has no array
// parameters, so the IN lists carry one placeholder per value.
func hopQuery(direction store.Direction, from []string, types []store.RelType) (string, []any) {
	near, far := "e.src_uuid", "e.dst_uuid"
	if direction == store.Incoming {
		near, far = far, near
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(near)
	b.WriteString(", e.rel_type, e.src_uuid, e.dst_uuid, e.props, ")
	b.WriteString(nodeColumns)
	b.WriteString("\nFROM edges e\nJOIN nodes n ON n.uuid = ")
	b.WriteString(far)
	b.WriteString("\nWHERE ")
	b.WriteString(near)
	b.WriteString(" IN (")
	args := make([]any, 0, len(from)+len(types))
	for i, id := range from {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
		args = append(args, id)
	}
	b.WriteString(")")
	if len(types) > 0 {
		b.WriteString("\n  AND e.rel_type IN (")
		for i, t := range types {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			args = append(args, string(t))
		}
		b.WriteString(")")
	}
	b.WriteString("\nORDER BY e.id")
	return b.String(), args
}

// hops returns the admissible single-hop extensions keyed by the frontier
// node they leave from.
func (r reader) hops(ctx context.Context, from []string, pattern store.Pattern) (map[string][]store.Hop, error) {
	query, args := hopQuery(pattern.Direction, from, pattern.Types)
	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Unavailable(err, "querying relationships")
	}
	defer rows.Close()

	hops := make(map[string][]store.Hop)
	for rows.Next() {
		var (
			near, relType, label string
			h                    store.Hop
			edgeProps, nodeProps []byte
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
