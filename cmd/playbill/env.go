package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"playbill/internal/config"
	"playbill/internal/graph"
	"playbill/internal/ingest"
	"playbill/internal/logging"
	"playbill/internal/store"
	"playbill/internal/store/memory"
	"playbill/internal/store/postgres"
	"playbill/internal/store/sqlite"
)

// backend is a store the CLI can both read views from and load fixtures
// into.
type backend interface {
	store.Store
	ingest.Store
}

var (
	_ backend = (*graph.Client)(nil)
	_ backend = (*postgres.Client)(nil)
	_ backend = (*sqlite.Client)(nil)
	_ backend = (*memory.Store)(nil)
)

type env struct {
	cfg    *config.ProjectConfig
	logger *zap.SugaredLogger
	db     backend
}

func loadEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	db, err := openBackend(ctx, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debugw("Store opened", "driver", cfg.Store.Driver)
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close(ctx context.Context) {
	if err := e.db.Close(ctx); err != nil {
		e.logger.Warnw("Closing store failed", "error", err)
	}
	_ = e.logger.Sync()
}

func openBackend(ctx context.Context, cfg *config.ProjectConfig) (backend, error) {
	switch cfg.Store.Driver {
	case config.DriverNeo4j:
		n := cfg.Store.Neo4j
		return graph.NewClient(ctx, n.URI, n.Username, n.Password, n.Database)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Store.Postgres.DSN)
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.Store.SQLite.DSN)
	case config.DriverMemory:
		return memory.LoadFile(cfg.Store.Memory.Fixture)
	default:
		return nil, errors.Newf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
