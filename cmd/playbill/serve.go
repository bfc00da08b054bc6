package main

import (
	"context"

	"github.com/spf13/cobra"

	"playbill/internal/mcp"
	"playbill/internal/view"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	svc := view.NewService(e.db, view.WithLogger(e.logger), view.WithListLimit(e.cfg.Views.ListLimit))
	server := mcp.NewServer(svc, e.db, e.logger, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
