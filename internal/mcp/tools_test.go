package mcp

import (
	"context"
	"errors"
	"testing"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/store/memory"
	"playbill/internal/view"
)

type mockViews struct {
	doc     any
	viewErr error
	items   []document.ListItem

	lastKind  view.Kind
	lastUUID  string
	lastOrder string
}

func (m *mockViews) GetView(ctx context.Context, kind view.Kind, id string) (any, error) {
	m.lastKind = kind
	m.lastUUID = id
	return m.doc, m.viewErr
}

func (m *mockViews) GetListView(ctx context.Context, kind view.Kind, order string) ([]document.ListItem, error) {
	m.lastKind = kind
	m.lastOrder = order
	return m.items, nil
}

const hamletUUID = "0b7c4f1e-6a3d-4e2b-9c8a-1f2e3d4c5b6a"

func TestGetView(t *testing.T) {
	views := &mockViews{doc: &document.MaterialView{}}
	server := NewServer(views, memory.New(), nil, "test")

	_, output, err := server.handleGetView(context.Background(), nil, GetViewInput{Kind: "material", UUID: hamletUUID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views.lastKind != view.KindMaterial || views.lastUUID != hamletUUID {
		t.Fatalf("unexpected view params: %s %s", views.lastKind, views.lastUUID)
	}
	if output.Document == nil || output.Kind != "material" {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestGetView_UnknownKind(t *testing.T) {
	server := NewServer(&mockViews{}, memory.New(), nil, "test")

	_, _, err := server.handleGetView(context.Background(), nil, GetViewInput{Kind: "playwright", UUID: hamletUUID})
	if !errors.Is(err, view.ErrUnknownKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestGetView_RequiresUUID(t *testing.T) {
	server := NewServer(&mockViews{}, memory.New(), nil, "test")

	if _, _, err := server.handleGetView(context.Background(), nil, GetViewInput{Kind: "material"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetView_NotFound(t *testing.T) {
	views := &mockViews{viewErr: store.NotFound("Material", hamletUUID)}
	server := NewServer(views, memory.New(), nil, "test")

	_, _, err := server.handleGetView(context.Background(), nil, GetViewInput{Kind: "material", UUID: hamletUUID})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListView(t *testing.T) {
	views := &mockViews{items: []document.ListItem{{Ref: document.Ref{Model: document.ModelProduction, UUID: hamletUUID, Name: "Hamlet"}}}}
	server := NewServer(views, memory.New(), nil, "test")

	_, output, err := server.handleListView(context.Background(), nil, ListViewInput{Kind: "production", Order: "-startDate"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Items) != 1 || output.Items[0].Name != "Hamlet" {
		t.Fatalf("unexpected list output: %+v", output)
	}
	if views.lastKind != view.KindProduction || views.lastOrder != "-startDate" {
		t.Fatalf("unexpected list params")
	}
}

func TestValidateGraph(t *testing.T) {
	b := memory.NewBuilder()
	b.Node(store.LabelPerson, "John Smith")
	b.Node(store.LabelPerson, "John Smith")
	db, err := b.Store()
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	server := NewServer(&mockViews{}, db, nil, "test")

	_, output, err := server.handleValidateGraph(context.Background(), nil, ValidateGraphInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Errors != 1 || len(output.Issues) != 1 {
		t.Fatalf("expected one duplicate identity, got %+v", output)
	}
}

func TestServerWithViewService(t *testing.T) {
	b := memory.NewBuilder()
	id := b.Node(store.LabelVenue, "Almeida Theatre")
	db, err := b.Store()
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	server := NewServer(view.NewService(db), db, nil, "test")

	_, output, err := server.handleGetView(context.Background(), nil, GetViewInput{Kind: "venue", UUID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, ok := output.Document.(*document.VenueView)
	if !ok || doc.Name != "Almeida Theatre" {
		t.Fatalf("unexpected document: %#v", output.Document)
	}
}
