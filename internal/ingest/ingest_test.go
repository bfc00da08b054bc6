package ingest

import (
	"context"
	"errors"
	"testing"

	"playbill/internal/store"
	"playbill/internal/store/memory"
)

const (
	hamletUUID = "0b7c4f1e-6a3d-4e2b-9c8a-1f2e3d4c5b6a"
	ghostUUID  = "1c8d5e2f-7b4e-4f3c-8d9b-2a3b4c5d6e7f"
)

type mockStore struct {
	nodes        []store.Node
	edges        []store.Edge
	ensureCalled bool
	resetCalled  bool
	failNode     string
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	return nil
}

func (m *mockStore) Reset(ctx context.Context) error {
	m.resetCalled = true
	return nil
}

func (m *mockStore) UpsertNode(ctx context.Context, n store.Node) error {
	if n.UUID == m.failNode {
		return errors.New("forced error")
	}
	m.nodes = append(m.nodes, n)
	return nil
}

func (m *mockStore) UpsertEdge(ctx context.Context, e store.Edge) error {
	m.edges = append(m.edges, e)
	return nil
}

const fixtureYAML = `
nodes:
  - uuid: 0b7c4f1e-6a3d-4e2b-9c8a-1f2e3d4c5b6a
    label: Material
    name: Hamlet
    props:
      format: play
      year: 1601
  - uuid: 1c8d5e2f-7b4e-4f3c-8d9b-2a3b4c5d6e7f
    label: Character
    name: Ghost
edges:
  - type: DEPICTS
    from: 0b7c4f1e-6a3d-4e2b-9c8a-1f2e3d4c5b6a
    to: 1c8d5e2f-7b4e-4f3c-8d9b-2a3b4c5d6e7f
    props:
      displayName: Ghost of King Hamlet
`

func testFixture(t *testing.T) *memory.Fixture {
	t.Helper()
	fixture, err := memory.DecodeFixture([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return fixture
}

func TestRun_BasicLoad(t *testing.T) {
	db := &mockStore{}

	result, err := Run(context.Background(), db, testFixture(t), Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !db.ensureCalled {
		t.Fatalf("expected ensure schema")
	}
	if db.resetCalled {
		t.Fatalf("reset must only run when requested")
	}
	if result.NodesUpserted != 2 || result.EdgesUpserted != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d and %d", result.NodesUpserted, result.EdgesUpserted)
	}
	if db.nodes[0].Props.String("name") != "Hamlet" {
		t.Fatalf("expected name copied into props, got %v", db.nodes[0].Props)
	}
	if db.edges[0].Props.String("displayName") != "Ghost of King Hamlet" {
		t.Fatalf("expected edge props, got %v", db.edges[0].Props)
	}
}

func TestRun_Reset(t *testing.T) {
	db := &mockStore{}

	if _, err := Run(context.Background(), db, testFixture(t), Options{Reset: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !db.resetCalled {
		t.Fatalf("expected reset")
	}
}

func TestRun_ContinuesOnError(t *testing.T) {
	db := &mockStore{failNode: ghostUUID}

	result, err := Run(context.Background(), db, testFixture(t), Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if result.NodesUpserted != 1 {
		t.Fatalf("expected 1 node upserted, got %d", result.NodesUpserted)
	}
	if result.EdgesSkipped != 1 || len(db.edges) != 0 {
		t.Fatalf("expected edge to rejected node skipped")
	}
}

func TestRun_RejectsBadEntries(t *testing.T) {
	db := &mockStore{}
	fixture := &memory.Fixture{
		Nodes: []memory.FixtureNode{
			{UUID: "not-a-uuid", Label: "Material", Name: "Broken"},
			{UUID: hamletUUID, Label: "Play", Name: "Hamlet"},
		},
		Edges: []memory.FixtureEdge{
			{Type: "DEPICTS", From: hamletUUID, To: ghostUUID},
		},
	}

	result, err := Run(context.Background(), db, fixture, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if len(db.nodes) != 0 || result.EdgesSkipped != 1 {
		t.Fatalf("expected nothing written, got %d nodes", len(db.nodes))
	}
}

func TestRun_IntoMemoryStoreIsIdempotent(t *testing.T) {
	db := memory.New()
	fixture := testFixture(t)

	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), db, fixture, Options{}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	err := db.Read(context.Background(), func(r store.Reader) error {
		paths, err := r.Match(context.Background(), hamletUUID, store.Pattern{
			Types:   []store.RelType{store.RelDepicts},
			MinHops: 1,
			MaxHops: 1,
		})
		if err != nil {
			return err
		}
		if len(paths) != 1 {
			t.Fatalf("expected 1 depiction after reload, got %d", len(paths))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
}
