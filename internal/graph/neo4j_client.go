package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const userAgent = "datafaker"

type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
	txConfig []func(*neo4j.TransactionConfig)
}

// NewNeo4jClient opens a Bolt driver and fails fast when the server is unreachable.
func NewNeo4jClient(ctx context.Context, opts Options) (Client, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		c.UserAgent = userAgent
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	client := &neo4jClient{driver: driver, database: opts.Database}
	if opts.TxTimeout > 0 {
		client.txConfig = append(client.txConfig, neo4j.WithTxTimeout(opts.TxTimeout))
	}
	return client, nil
}

func (c *neo4jClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return c.execute(ctx, neo4j.AccessModeWrite, cypher, params)
}

func (c *neo4jClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return c.execute(ctx, neo4j.AccessModeRead, cypher, params)
}

// execute runs cypher inside a managed transaction; the driver retries transient
// cluster errors before giving up.
func (c *neo4jClient) execute(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (Result, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: mode})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return drain(ctx, res)
	}

	var (
		out any
		err error
	)
	if mode == neo4j.AccessModeWrite {
		out, err = session.ExecuteWrite(ctx, work, c.txConfig...)
	} else {
		out, err = session.ExecuteRead(ctx, work, c.txConfig...)
	}
	if err != nil {
		return Result{}, err
	}
	return out.(Result), nil
}

func (c *neo4jClient) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func drain(ctx context.Context, res neo4j.ResultWithContext) (Result, error) {
	var out Result
	for res.Next(ctx) {
		rec := res.Record()
		record := make(Record, len(rec.Keys))
		for i, key := range rec.Keys {
			record[key] = rec.Values[i]
		}
		out.Records = append(out.Records, record)
	}
	return out, res.Err()
}
