package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"playbill/internal/graph"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run raw read queries against the configured backend",
	}
	cmd.AddCommand(queryCypherCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}

func queryCypherCmd() *cobra.Command {
	var paramPairs []string
	cmd := &cobra.Command{
		Use:   "cypher <query>",
		Short: "Execute a raw Cypher query (neo4j driver)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramPairs)
			if err != nil {
				return err
			}
			return runQuery(strings.Join(args, " "), params, func(ctx context.Context, e *env, query string, params map[string]any) ([]map[string]any, error) {
				client, ok := e.db.(*graph.Client)
				if !ok {
					return nil, errors.Newf("query cypher needs the neo4j driver, not %s", e.cfg.Store.Driver)
				}
				return client.RunCypher(ctx, query, params)
			})
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Query parameter as key=value (repeatable)")
	return cmd
}

func querySQLCmd() *cobra.Command {
	var paramPairs []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Execute a raw SQL query in a read-only transaction (postgres or sqlite driver)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramPairs)
			if err != nil {
				return err
			}
			return runQuery(strings.Join(args, " "), params, func(ctx context.Context, e *env, query string, params map[string]any) ([]map[string]any, error) {
				client, ok := e.db.(sqlRunner)
				if !ok {
					return nil, errors.Newf("query sql needs the postgres or sqlite driver, not %s", e.cfg.Store.Driver)
				}
				return client.RunSQL(ctx, query, params)
			})
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Query parameter as key=value, keys 1, 2, ... for $1, $2 or ?1, ?2 (repeatable)")
	return cmd
}

// sqlRunner is a backend that accepts raw SQL.
type sqlRunner interface {
	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

type queryFunc func(ctx context.Context, e *env, query string, params map[string]any) ([]map[string]any, error)

func runQuery(query string, params map[string]any, run queryFunc) error {
	ctx := context.Background()

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	rows, err := run(ctx, e, query, params)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Newf("invalid param %q: expected key=value", pair)
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			return nil, errors.Newf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(parts[1])
	}
	return params, nil
}
