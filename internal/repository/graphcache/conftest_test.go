package graphcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/db"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

// mockBuilder implements Builder for tests.
type mockBuilder struct {
	graph *graph.Graph
	err   error
	calls int
}

func (m *mockBuilder) Build(_ context.Context, _ graph.Kind, _ query.Criteria) (*graph.Graph, error) {
	m.calls++
	return m.graph, m.err
}

// mockGens implements generations with a settable counter.
type mockGens struct {
	gen uint64
}

func (m *mockGens) Generation() uint64 { return m.gen }

// mockKVStore implements the consumer store interface for tests.
type mockKVStore struct {
	getFn  func(ctx context.Context, key string) ([]byte, error)
	setFn  func(ctx context.Context, key string, value []byte) error
	delFn  func(ctx context.Context, key string) error
	scanFn func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockKVStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func smallGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(graph.KindSocial)
	if err := b.AddNode("A", graph.NodePerson, 1); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := b.AddNode("B", graph.NodePerson, 1); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := b.AddEdge("A", "B", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return b.Build()
}

func newTestCachedBuilder(t *testing.T, inner *mockBuilder) (*CachedBuilder, *mockKVStore, *mockGens) {
	t.Helper()
	ms := &mockKVStore{}
	gens := &mockGens{gen: 1}
	cb := New(inner, gens, ms, nil, zap.NewNop())
	return cb, ms, gens
}
