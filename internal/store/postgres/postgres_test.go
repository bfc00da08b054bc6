package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbill/internal/store"
)

const (
	materialUUID = "8f3c2a4e-1b6d-4c5e-9a7f-0d2e3b4c5a61"
	actOneUUID   = "a1b2c3d4-0001-4000-8000-000000000001"
	actTwoUUID   = "a1b2c3d4-0002-4000-8000-000000000002"
	sceneUUID    = "a1b2c3d4-0003-4000-8000-000000000003"
)

// arrayConverter lets []string parameters through to the mock the way the
// pgx driver accepts them for text[] placeholders.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.([]string); ok {
		return s, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMock(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

var (
	nodeCols = []string{"uuid", "label", "name", "differentiator", "props"}
	hopCols  = []string{"near", "rel_type", "src_uuid", "dst_uuid", "props", "uuid", "label", "name", "differentiator", "props"}
)

func TestGetNode(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM nodes n WHERE n.uuid = $1")).
		WithArgs(materialUUID).
		WillReturnRows(sqlmock.NewRows(nodeCols).
			AddRow(materialUUID, "Material", "Hamlet", "1", `{"format":"play","year":1601}`))
	mock.ExpectCommit()

	var node store.Node
	err := c.Read(context.Background(), func(r store.Reader) error {
		var err error
		node, err = r.GetNode(context.Background(), materialUUID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, store.LabelMaterial, node.Label)
	assert.Equal(t, "Hamlet", node.Name)
	assert.Equal(t, "1", node.Differentiator)
	assert.Equal(t, "play", node.Props.String("format"))
	year, ok := node.Props.Int("year")
	assert.True(t, ok)
	assert.Equal(t, 1601, year)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNodeNotFound(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM nodes n WHERE n.uuid = $1")).
		WithArgs(materialUUID).
		WillReturnRows(sqlmock.NewRows(nodeCols))
	mock.ExpectRollback()

	err := c.Read(context.Background(), func(r store.Reader) error {
		_, err := r.GetNode(context.Background(), materialUUID)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNodesLimit(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.label = $1 ORDER BY n.name, n.uuid LIMIT $2")).
		WithArgs("Material", 2).
		WillReturnRows(sqlmock.NewRows(nodeCols).
			AddRow(actOneUUID, "Material", "Act One", "", `{}`).
			AddRow(actTwoUUID, "Material", "Act Two", "", nil))
	mock.ExpectCommit()

	var nodes []store.Node
	err := c.Read(context.Background(), func(r store.Reader) error {
		var err error
		nodes, err = r.Nodes(context.Background(), store.LabelMaterial, 2)
		return err
	})
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Act One", nodes[0].Name)
	assert.NotNil(t, nodes[1].Props)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchExpandsFrontier(t *testing.T) {
	c, mock := newMock(t)
	types := []string{string(store.RelHasSubMaterial)}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM nodes n WHERE n.uuid = $1")).
		WithArgs(materialUUID).
		WillReturnRows(sqlmock.NewRows(nodeCols).
			AddRow(materialUUID, "Material", "The Coast of Utopia", "", `{}`))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.src_uuid = ANY($1)")).
		WithArgs([]string{materialUUID}, types).
		WillReturnRows(sqlmock.NewRows(hopCols).
			AddRow(materialUUID, "HAS_SUB_MATERIAL", materialUUID, actOneUUID, `{"position":1}`,
				actOneUUID, "Material", "Voyage", "", `{}`).
			AddRow(materialUUID, "HAS_SUB_MATERIAL", materialUUID, actTwoUUID, `{"position":0}`,
				actTwoUUID, "Material", "Shipwreck", "", `{}`))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.src_uuid = ANY($1)")).
		WithArgs([]string{actOneUUID, actTwoUUID}, types).
		WillReturnRows(sqlmock.NewRows(hopCols).
			AddRow(actOneUUID, "HAS_SUB_MATERIAL", actOneUUID, sceneUUID, `{}`,
				sceneUUID, "Material", "Premukhino", "", `{}`).
			AddRow(actTwoUUID, "HAS_SUB_MATERIAL", actTwoUUID, materialUUID, `{}`,
				materialUUID, "Material", "The Coast of Utopia", "", `{}`))
	mock.ExpectCommit()

	var paths []store.Path
	err := c.Read(context.Background(), func(r store.Reader) error {
		var err error
		paths, err = r.Match(context.Background(), materialUUID, store.Pattern{
			Types:     []store.RelType{store.RelHasSubMaterial},
			Direction: store.Outgoing,
			MinHops:   1,
			MaxHops:   2,
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, actOneUUID, paths[0].End().UUID)
	assert.Equal(t, actTwoUUID, paths[1].End().UUID)
	assert.Equal(t, sceneUUID, paths[2].End().UUID)
	assert.Equal(t, 2, paths[2].Len())
	assert.Equal(t, actOneUUID, paths[2].Nodes[1].UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchIncomingAppliesFilterAndLabels(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM nodes n WHERE n.uuid = $1")).
		WithArgs(materialUUID).
		WillReturnRows(sqlmock.NewRows(nodeCols).
			AddRow(materialUUID, "Material", "Hamlet", "", `{}`))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.dst_uuid = ANY($1)")).
		WithArgs([]string{materialUUID}, []string{}).
		WillReturnRows(sqlmock.NewRows(hopCols).
			AddRow(materialUUID, "WRITING_CREDIT", actOneUUID, materialUUID, `{"creditType":"rights-grantor"}`,
				actOneUUID, "Person", "William Shakespeare", "", `{}`).
			AddRow(materialUUID, "WRITING_CREDIT", actTwoUUID, materialUUID, `{}`,
				actTwoUUID, "Company", "Told by an Idiot", "", `{}`).
			AddRow(materialUUID, "WRITING_CREDIT", sceneUUID, materialUUID, `{"creditType":"rights-grantor"}`,
				sceneUUID, "Company", "The King's Men", "", `{}`))
	mock.ExpectCommit()

	var paths []store.Path
	err := c.Read(context.Background(), func(r store.Reader) error {
		var err error
		paths, err = r.Match(context.Background(), materialUUID, store.Pattern{
			Direction: store.Incoming,
			MinHops:   1,
			MaxHops:   1,
			Labels:    []store.Label{store.LabelPerson},
			Filter:    map[string]any{"creditType": "rights-grantor"},
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "William Shakespeare", paths[0].End().Name)
	assert.Equal(t, actOneUUID, paths[0].LastEdge().From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchUnknownStart(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM nodes n WHERE n.uuid = $1")).
		WithArgs(materialUUID).
		WillReturnRows(sqlmock.NewRows(nodeCols))
	mock.ExpectCommit()

	err := c.Read(context.Background(), func(r store.Reader) error {
		paths, err := r.Match(context.Background(), materialUUID, store.Pattern{
			Types:   []store.RelType{store.RelDepicts},
			MinHops: 1,
			MaxHops: 1,
		})
		assert.Empty(t, paths)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadBeginFailureIsUnavailable(t *testing.T) {
	c, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := c.Read(context.Background(), func(r store.Reader) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestRunSQL(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM nodes WHERE label = $1")).
		WithArgs("Venue").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow([]byte("Almeida Theatre")))
	mock.ExpectRollback()

	rows, err := c.RunSQL(context.Background(), "SELECT name FROM nodes WHERE label = $1", map[string]any{"1": "Venue"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Almeida Theatre", rows[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertNode(t *testing.T) {
	c, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO nodes (uuid, label, name, differentiator, props)")).
		WithArgs(materialUUID, "Material", "Hamlet", "", `{"format":"play"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.UpsertNode(context.Background(), store.Node{
		UUID:  materialUUID,
		Label: store.LabelMaterial,
		Name:  "Hamlet",
		Props: store.Props{"format": "play"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEdgeRejectsBadType(t *testing.T) {
	c, _ := newMock(t)

	err := c.UpsertEdge(context.Background(), store.Edge{Type: "DEPICTS; DROP", From: materialUUID, To: actOneUUID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid relationship type")
}

func TestUpsertEdge(t *testing.T) {
	c, mock := newMock(t)
	edge := store.Edge{Type: store.RelHasSubMaterial, From: materialUUID, To: actOneUUID, Props: store.Props{"position": 0}}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (edge_key) DO NOTHING")).
		WithArgs("HAS_SUB_MATERIAL", materialUUID, actOneUUID, `{"position":0}`, edge.Key()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, c.UpsertEdge(context.Background(), edge))
	assert.NoError(t, mock.ExpectationsWereMet())
}
