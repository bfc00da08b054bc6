package graph

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"playbill/internal/store"
)

// RunCypher runs an ad-hoc query in a read transaction and returns every
// record as a map. Graph values come back as catalogue nodes, edges and
// paths so they encode as plain JSON.
func (c *Client) RunCypher(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	var rows []map[string]any
	err := c.Read(ctx, func(r store.Reader) error {
		var err error
		rows, err = r.(reader).rows(ctx, query, params)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "run cypher")
	}
	return rows, nil
}

func (r reader) rows(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	res, err := r.tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0)
	for res.Next(ctx) {
		record := res.Record()
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = plain(record.Values[i])
		}
		rows = append(rows, row)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func plain(value any) any {
	switch v := value.(type) {
	case neo4j.Node:
		return nodeFrom(v)
	case neo4j.Relationship:
		props := store.Props{}
		for key, value := range v.Props {
			if key != edgeKeyProp {
				props[key] = value
			}
		}
		return map[string]any{"type": v.Type, "props": props}
	case neo4j.Path:
		if p, ok := pathFrom(v); ok {
			return p
		}
		return nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = plain(item)
		}
		return out
	default:
		return v
	}
}
