package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"playbill/internal/ingest"
	"playbill/internal/store/memory"
)

func ingestCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "ingest <fixture.yaml>",
		Short: "Load a YAML catalogue fixture into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(args[0], reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Empty the store before loading")
	return cmd
}

func runIngest(path string, reset bool) error {
	ctx := context.Background()

	fixture, err := memory.ReadFixture(path)
	if err != nil {
		return err
	}

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	result, err := ingest.Run(ctx, e.db, fixture, ingest.Options{Reset: reset})
	if err != nil {
		return err
	}
	e.logger.Infow("Fixture loaded", "path", path, "nodes", result.NodesUpserted, "edges", result.EdgesUpserted)

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Nodes upserted: %d\n", result.NodesUpserted)
	fmt.Fprintf(os.Stdout, "  Edges upserted: %d\n", result.EdgesUpserted)
	fmt.Fprintf(os.Stdout, "  Edges skipped:  %d\n", result.EdgesSkipped)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return errors.New("ingestion completed with errors")
	}

	return nil
}
