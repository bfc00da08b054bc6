package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultListLimit caps list views when views.list_limit is unset.
const DefaultListLimit = 500

// Store drivers.
const (
	DriverNeo4j    = "neo4j"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type ProjectConfig struct {
	Project string        `yaml:"project"`
	Version int           `yaml:"version"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Views   ViewsConfig   `yaml:"views"`
}

type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Memory   MemoryConfig   `yaml:"memory"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SQLiteConfig points at a database file, as sqlite://path or
// sqlite://:memory:.
type SQLiteConfig struct {
	DSN string `yaml:"dsn"`
}

type MemoryConfig struct {
	Fixture string `yaml:"fixture"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ViewsConfig struct {
	ListLimit int `yaml:"list_limit"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading project config")
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "loading project config")
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "loading project config")
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Views.ListLimit == 0 {
		cfg.Views.ListLimit = DefaultListLimit
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Store.Driver == DriverNeo4j && cfg.Store.Neo4j.Database == "" {
		cfg.Store.Neo4j.Database = "neo4j"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return errors.New("project name is required")
	}
	if cfg.Version != 1 {
		return errors.Newf("unsupported version: %d", cfg.Version)
	}

	switch cfg.Store.Driver {
	case DriverNeo4j:
		if strings.TrimSpace(cfg.Store.Neo4j.URI) == "" {
			return errors.New("neo4j uri is required")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.Store.Postgres.DSN) == "" {
			return errors.New("postgres dsn is required")
		}
	case DriverSQLite:
		if strings.TrimSpace(cfg.Store.SQLite.DSN) == "" {
			return errors.New("sqlite dsn is required")
		}
	case DriverMemory:
		if strings.TrimSpace(cfg.Store.Memory.Fixture) == "" {
			return errors.New("memory fixture is required")
		}
	case "":
		return errors.New("store driver is required")
	default:
		return errors.Newf("unsupported store driver: %s", cfg.Store.Driver)
	}

	if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Wrap(err, "logging level")
	}
	if cfg.Views.ListLimit < 0 {
		return errors.Newf("views list_limit must be positive: %d", cfg.Views.ListLimit)
	}

	return nil
}
