// Package graph serves catalogue reads from Neo4j. Nodes carry one catalogue
// label and a uuid property; relationship types are the catalogue's.
package graph

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"playbill/internal/store"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewClient(ctx context.Context, uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, store.Unavailable(err, "creating neo4j driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, store.Unavailable(err, "verifying neo4j connectivity")
	}

	return &Client{driver: driver, database: database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// Read runs fn inside one managed read transaction. The driver may retry fn
// on transient failures, so fn must not keep state across attempts.
func (c *Client) Read(ctx context.Context, fn func(store.Reader) error) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	var fnErr error
	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		fnErr = fn(reader{tx: tx})
		return nil, fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return store.Unavailable(err, "neo4j read")
}

// EnsureSchema creates a uuid uniqueness constraint for every catalogue
// label.
func (c *Client) EnsureSchema(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	for _, label := range store.Labels {
		stmt := fmt.Sprintf(
			"CREATE CONSTRAINT %s_uuid IF NOT EXISTS FOR (n:%s) REQUIRE n.uuid IS UNIQUE",
			constraintName(label), label)
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, stmt, nil)
			return nil, err
		}); err != nil {
			return errors.Wrapf(err, "ensuring %s constraint", label)
		}
	}
	return nil
}

func constraintName(label store.Label) string {
	name := make([]byte, 0, len(label)+4)
	for i, ch := range []byte(label) {
		if ch >= 'A' && ch <= 'Z' {
			if i > 0 {
				name = append(name, '_')
			}
			ch += 'a' - 'A'
		}
		name = append(name, ch)
	}
	return string(name)
}
