// Package mcp exposes the view service as Model Context Protocol tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/view"
)

// Views is the part of view.Service the tools call.
type Views interface {
	GetView(ctx context.Context, kind view.Kind, id string) (any, error)
	GetListView(ctx context.Context, kind view.Kind, order string) ([]document.ListItem, error)
}

type Server struct {
	views  Views
	db     store.Store
	logger *zap.SugaredLogger
	mcp    *sdk.Server
}

func NewServer(views Views, db store.Store, logger *zap.SugaredLogger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		views:  views,
		db:     db,
		logger: logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "playbill",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Infow("MCP server starting")
	return s.mcp.Run(ctx, transport)
}
