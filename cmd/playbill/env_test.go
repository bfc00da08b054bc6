package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbill/internal/config"
	"playbill/internal/document"
	"playbill/internal/validate"
	"playbill/internal/view"
)

const (
	hamletProduction = "6c1a9f52-3b1e-4a7e-9a53-0d2f8e4c1a04"
	hamletCharacter  = "6c1a9f52-3b1e-4a7e-9a53-0d2f8e4c1a03"
)

func writeMemoryConfig(t *testing.T) {
	t.Helper()
	fixture, err := filepath.Abs(filepath.Join("testdata", "catalogue.yaml"))
	require.NoError(t, err)
	configPath = filepath.Join(t.TempDir(), "playbill.yaml")
	contents := fmt.Sprintf("project: test\nversion: 1\nstore:\n  driver: memory\n  memory:\n    fixture: %s\nlogging:\n  level: error\n", fixture)
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o600))
}

func TestLoadEnvMemoryBackend(t *testing.T) {
	writeMemoryConfig(t)
	ctx := context.Background()

	e, err := loadEnv(ctx)
	require.NoError(t, err)
	defer e.Close(ctx)
	assert.Equal(t, config.DriverMemory, e.cfg.Store.Driver)

	svc := view.NewService(e.db, view.WithLogger(e.logger))
	doc, err := svc.GetView(ctx, view.KindProduction, hamletProduction)
	require.NoError(t, err)
	p := doc.(*document.ProductionView)
	require.NotNil(t, p.Venue)
	assert.Equal(t, "Olivier Theatre", p.Venue.Name)
	require.Len(t, p.Cast, 1)
	require.NotNil(t, p.Cast[0].Roles[0].UUID)
	assert.Equal(t, hamletCharacter, *p.Cast[0].Roles[0].UUID)

	report, err := validate.Run(ctx, e.db)
	require.NoError(t, err)
	assert.Zero(t, report.Errors())
}

func TestRunIngestIntoMemoryBackend(t *testing.T) {
	writeMemoryConfig(t)
	require.NoError(t, runIngest(filepath.Join("testdata", "catalogue.yaml"), true))
}

func TestRunIngestIntoSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "playbill.yaml")
	contents := fmt.Sprintf("project: test\nversion: 1\nstore:\n  driver: sqlite\n  sqlite:\n    dsn: sqlite://%s\nlogging:\n  level: error\n",
		filepath.Join(dir, "playbill.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o600))
	require.NoError(t, runIngest(filepath.Join("testdata", "catalogue.yaml"), true))

	ctx := context.Background()
	e, err := loadEnv(ctx)
	require.NoError(t, err)
	defer e.Close(ctx)

	svc := view.NewService(e.db, view.WithLogger(e.logger))
	doc, err := svc.GetView(ctx, view.KindProduction, hamletProduction)
	require.NoError(t, err)
	p := doc.(*document.ProductionView)
	require.NotNil(t, p.Venue)
	assert.Equal(t, "Olivier Theatre", p.Venue.Name)
	require.Len(t, p.Cast, 1)
	require.NotNil(t, p.Cast[0].Roles[0].UUID)
	assert.Equal(t, hamletCharacter, *p.Cast[0].Roles[0].UUID)
}

func TestOpenBackendMissingFixture(t *testing.T) {
	cfg := &config.ProjectConfig{Store: config.StoreConfig{
		Driver: config.DriverMemory,
		Memory: config.MemoryConfig{Fixture: filepath.Join(t.TempDir(), "missing.yaml")},
	}}
	_, err := openBackend(context.Background(), cfg)
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	writeReport(&out, &validate.Report{})
	assert.Equal(t, "No issues found.\n", out.String())

	out.Reset()
	writeReport(&out, &validate.Report{Issues: []validate.Issue{
		{Severity: validate.SeverityWarn, Code: "w", Message: "second", Label: "Venue", Name: "Olivier Theatre", UUID: "v1"},
		{Severity: validate.SeverityError, Code: "e", Message: "first", Label: "Person", Name: "Rory Kinnear", UUID: "p1"},
	}})
	assert.Equal(t, "Errors (1):\n"+
		"  - Person Rory Kinnear [p1]: first (e)\n"+
		"\n"+
		"Warnings (1):\n"+
		"  - Venue Olivier Theatre [v1]: second (w)\n", out.String())
}
