package graph

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client is the narrow contract the sink needs from a graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	// TxTimeout bounds each managed transaction on the server; zero keeps the server default.
	TxTimeout time.Duration
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

// WriteBatches runs cypher once per chunk of items, binding the chunk to $rows next to
// the shared params. It returns how many items were written before any failure.
func WriteBatches(ctx context.Context, c Client, cypher string, items []map[string]any, size int, shared map[string]any) (int, error) {
	if size <= 0 {
		size = len(items)
	}

	written := 0
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))

		params := make(map[string]any, len(shared)+1)
		for k, v := range shared {
			params[k] = v
		}
		params["rows"] = items[start:end]

		if _, err := c.ExecuteWrite(ctx, cypher, params); err != nil {
			return written, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		written = end
	}
	return written, nil
}
