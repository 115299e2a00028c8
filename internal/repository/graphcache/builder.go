// Package graphcache caches built projections in a key-value store,
// keyed by corpus generation, projection kind and filter criteria.
package graphcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/db"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

const cacheKeyPrefix = "georgievi:graph_cache:"

// Builder is the projection construction contract being decorated.
type Builder interface {
	Build(ctx context.Context, kind graph.Kind, criteria query.Criteria) (*graph.Graph, error)
}

// generations reports the record store reload counter. A reload changes
// the generation, which changes every cache key.
type generations interface {
	Generation() uint64
}

// store is the consumer interface for the projection cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// CachedBuilder caches built projections in a key-value store. Cache
// failures degrade to a rebuild, never to a request failure.
type CachedBuilder struct {
	inner      Builder
	gens       generations
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Builder,
	gens generations,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedBuilder {
	return &CachedBuilder{
		inner:      inner,
		gens:       gens,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Build returns a cached projection or builds and caches a fresh one.
func (c *CachedBuilder) Build(
	ctx context.Context, kind graph.Kind, criteria query.Criteria,
) (*graph.Graph, error) {
	key := c.cacheKey(kind, criteria)

	if g, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return g, nil
	}

	c.incCache("miss")

	g, err := c.inner.Build(ctx, kind, criteria)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, g)
	return g, nil
}

// Purge drops every cached projection. Called after a corpus reload so
// entries from the previous generation do not linger in the store.
func (c *CachedBuilder) Purge(ctx context.Context) error {
	keys, err := c.store.Scan(ctx, cacheKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan graph cache: %w", err)
	}
	for _, key := range keys {
		if err := c.store.Del(ctx, key); err != nil {
			return fmt.Errorf("purge graph cache: %w", err)
		}
	}
	return nil
}

func (c *CachedBuilder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedBuilder) cacheKey(kind graph.Kind, criteria query.Criteria) string {
	raw := fmt.Sprintf("gen=%d|kind=%s|%s", c.gens.Generation(), kind, criteria.CacheKey())
	h := sha256.Sum256([]byte(raw))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedBuilder) getFromCache(ctx context.Context, key string) (*graph.Graph, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached graph", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn("Failed to parse cached graph", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	g, err := graph.FromSnapshot(snap)
	if err != nil {
		c.logger.Warn("Corrupt cached graph", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return g, true
}

func (c *CachedBuilder) putToCache(ctx context.Context, key string, g *graph.Graph) {
	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		c.logger.Warn("Failed to encode graph for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache graph", zap.String("key", key), zap.Error(err))
	}
}
