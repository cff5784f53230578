package graph

import (
	"context"
	"maps"
	"sync"
)

// ExecutedQuery is one statement seen by a MemoryClient.
type ExecutedQuery struct {
	Write  bool
	Query  string
	Params map[string]any
}

// MemoryClient records every statement instead of talking to a database. Tests use it
// to assert on generated Cypher and parameters.
type MemoryClient struct {
	mu        sync.Mutex
	log       []ExecutedQuery
	queued    []Result
	writeErr  error
	failAfter int
	closed    bool
}

// NewMemoryClient returns an empty recorder.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// FailWritesAfter lets the first n writes succeed and fails the rest with err.
func (m *MemoryClient) FailWritesAfter(n int, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter, m.writeErr = n, err
	return m
}

// PushReadResult queues the result for the next ExecuteRead call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil && m.count(true) >= m.failAfter {
		return Result{}, m.writeErr
	}
	m.log = append(m.log, ExecutedQuery{Write: true, Query: cypher, Params: maps.Clone(params)})
	return Result{}, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log = append(m.log, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})
	if len(m.queued) == 0 {
		return Result{}, nil
	}
	res := m.queued[0]
	m.queued = m.queued[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error { return nil }

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns the recorded writes in execution order.
func (m *MemoryClient) WriteCalls() []ExecutedQuery { return m.calls(true) }

// ReadCalls returns the recorded reads in execution order.
func (m *MemoryClient) ReadCalls() []ExecutedQuery { return m.calls(false) }

func (m *MemoryClient) calls(write bool) []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ExecutedQuery
	for _, q := range m.log {
		if q.Write == write {
			out = append(out, q)
		}
	}
	return out
}

func (m *MemoryClient) count(write bool) int {
	n := 0
	for _, q := range m.log {
		if q.Write == write {
			n++
		}
	}
	return n
}
