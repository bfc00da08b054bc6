package mcp

import (
	"context"

	"github.com/cockroachdb/errors"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"playbill/internal/document"
	"playbill/internal/validate"
	"playbill/internal/view"
)

type GetViewInput struct {
	Kind string `json:"kind" jsonschema:"entity kind, e.g. material, person, production, venue, character, award"`
	UUID string `json:"uuid" jsonschema:"entity uuid"`
}

type GetViewOutput struct {
	Kind     string `json:"kind"`
	UUID     string `json:"uuid"`
	Document any    `json:"document"`
}

type ListViewInput struct {
	Kind  string `json:"kind" jsonschema:"entity kind"`
	Order string `json:"order,omitempty" jsonschema:"name, -name, startDate or -startDate (productions only)"`
}

type ListViewOutput struct {
	Items []document.ListItem `json:"items"`
}

type ValidateGraphInput struct{}

type ValidateGraphOutput struct {
	Errors int              `json:"errors"`
	Issues []validate.Issue `json:"issues"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_view",
		Description: "Build the detail document for one catalogue entity",
	}, s.handleGetView)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_view",
		Description: "List every entity of a kind with its summary fields",
	}, s.handleListView)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_graph",
		Description: "Report duplicate identities, clashing positions and partial credit ordering",
	}, s.handleValidateGraph)
}

func (s *Server) handleGetView(ctx context.Context, req *sdk.CallToolRequest, input GetViewInput) (*sdk.CallToolResult, GetViewOutput, error) {
	if input.Kind == "" {
		return nil, GetViewOutput{}, errors.New("kind is required")
	}
	if input.UUID == "" {
		return nil, GetViewOutput{}, errors.New("uuid is required")
	}
	kind, err := view.ParseKind(input.Kind)
	if err != nil {
		return nil, GetViewOutput{}, err
	}
	doc, err := s.views.GetView(ctx, kind, input.UUID)
	if err != nil {
		return nil, GetViewOutput{}, err
	}
	return nil, GetViewOutput{Kind: string(kind), UUID: input.UUID, Document: doc}, nil
}

func (s *Server) handleListView(ctx context.Context, req *sdk.CallToolRequest, input ListViewInput) (*sdk.CallToolResult, ListViewOutput, error) {
	if input.Kind == "" {
		return nil, ListViewOutput{}, errors.New("kind is required")
	}
	kind, err := view.ParseKind(input.Kind)
	if err != nil {
		return nil, ListViewOutput{}, err
	}
	items, err := s.views.GetListView(ctx, kind, input.Order)
	if err != nil {
		return nil, ListViewOutput{}, err
	}
	return nil, ListViewOutput{Items: items}, nil
}

func (s *Server) handleValidateGraph(ctx context.Context, req *sdk.CallToolRequest, input ValidateGraphInput) (*sdk.CallToolResult, ValidateGraphOutput, error) {
	report, err := validate.Run(ctx, s.db)
	if err != nil {
		return nil, ValidateGraphOutput{}, err
	}
	return nil, ValidateGraphOutput{Errors: report.Errors(), Issues: report.Issues}, nil
}
