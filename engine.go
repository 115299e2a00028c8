// Package georgievi embeds the correspondence network engine in a Go
// program: load letter records, build graph projections, compute
// centrality and community metrics, and walk temporal snapshot series
// without running the HTTP server.
package georgievi

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/db"
	dbMemory "github.com/Bestroi150/georgievi-network/internal/db/memory"
	dbRedis "github.com/Bestroi150/georgievi-network/internal/db/redis"
	"github.com/Bestroi150/georgievi-network/internal/repository/graphcache"
	"github.com/Bestroi150/georgievi-network/internal/repository/letters"
	buildUc "github.com/Bestroi150/georgievi-network/internal/usecase/build"
	ingestuc "github.com/Bestroi150/georgievi-network/internal/usecase/ingest"
	sequenceuc "github.com/Bestroi150/georgievi-network/internal/usecase/sequence"
)

const defaultReadinessTimeout = 10 * time.Second

// Extractor derives topics and commodities from letter content. Plug in
// your own labeling logic for records that arrive without curated labels.
type Extractor interface {
	Extract(ctx context.Context, content string) (topics, commodities []string, err error)
}

// Engine is the embedded SDK entry point.
type Engine struct {
	store     *letters.Store
	cache     db.Store
	ingestSvc *ingestuc.Service
	builder   *graphcache.CachedBuilder
	sequencer *sequenceuc.Service
	seed      int64
}

type engineConfig struct {
	geoPolicy  string
	datePolicy string
	seed       int64
	extractor  Extractor
	redisAddrs []string
	redisPass  string
	logger     *zap.Logger
}

// Option configures engine construction.
type Option func(*engineConfig)

// WithGeoEdgePolicy selects the geographic edge policy: "route"
// (default) or "comention".
func WithGeoEdgePolicy(policy string) Option {
	return func(c *engineConfig) { c.geoPolicy = policy }
}

// WithDatePolicy selects malformed-date handling: "reject" (default)
// fails the batch, "partition" keeps the record undated.
func WithDatePolicy(policy string) Option {
	return func(c *engineConfig) { c.datePolicy = policy }
}

// WithCommunitySeed fixes the community detection seed.
func WithCommunitySeed(seed int64) Option {
	return func(c *engineConfig) { c.seed = seed }
}

// WithExtractor plugs in a topic extraction provider.
func WithExtractor(e Extractor) Option {
	return func(c *engineConfig) { c.extractor = e }
}

// WithRedisCache stores built projections in Redis instead of the
// default in-process cache.
func WithRedisCache(addrs []string, password string) Option {
	return func(c *engineConfig) {
		c.redisAddrs = addrs
		c.redisPass = password
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{seed: 1, logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	geoPolicy, err := buildUc.ParseGeoPolicy(cfg.geoPolicy)
	if err != nil {
		return nil, fmt.Errorf("georgievi: %w", err)
	}
	datePolicy, err := ingestuc.ParseDatePolicy(cfg.datePolicy)
	if err != nil {
		return nil, fmt.Errorf("georgievi: %w", err)
	}

	cache, err := createCache(cfg)
	if err != nil {
		return nil, err
	}

	store := letters.NewStore()
	buildSvc := buildUc.New(store, geoPolicy)
	builder := graphcache.New(buildSvc, store, cache, nil, cfg.logger)

	var extractor ingestuc.Extractor
	if cfg.extractor != nil {
		extractor = cfg.extractor
	}

	return &Engine{
		store:     store,
		cache:     cache,
		ingestSvc: ingestuc.New(store, extractor, builder, datePolicy, cfg.logger),
		builder:   builder,
		sequencer: sequenceuc.New(builder, store),
		seed:      cfg.seed,
	}, nil
}

func createCache(cfg *engineConfig) (db.Store, error) {
	if len(cfg.redisAddrs) == 0 {
		return dbMemory.NewStore(), nil
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.redisAddrs,
		Password: cfg.redisPass,
	})
	if err != nil {
		return nil, fmt.Errorf("georgievi: create redis cache: %w", err)
	}
	ctx := context.Background()
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("georgievi: redis cache not ready: %w", err)
	}
	return s, nil
}

// Close releases all resources.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Load validates a batch of letters and replaces the current corpus.
// Any invalid record rejects the whole batch, leaving the previous
// corpus intact.
func (e *Engine) Load(ctx context.Context, ls []Letter) (Report, error) {
	raws := make([]ingestuc.RawLetter, len(ls))
	for i, l := range ls {
		raws[i] = l.toRaw()
	}

	report, err := e.ingestSvc.Ingest(ctx, raws)
	if err != nil {
		return Report{}, fmt.Errorf("load: %w", err)
	}
	return Report{
		Loaded:      report.Loaded,
		Dated:       report.Dated,
		Partitioned: report.Partitioned,
	}, nil
}

// Len returns the number of loaded records.
func (e *Engine) Len() int { return e.store.Len() }

// Undated returns the number of records without a usable date.
func (e *Engine) Undated() int { return e.store.UndatedCount() }

// Social returns a fluent builder for the social projection.
func (e *Engine) Social() *GraphBuilder { return e.graph(kindSocial) }

// Geographic returns a fluent builder for the geographic projection.
func (e *Engine) Geographic() *GraphBuilder { return e.graph(kindGeographic) }

// Thematic returns a fluent builder for the thematic projection.
func (e *Engine) Thematic() *GraphBuilder { return e.graph(kindThematic) }

// Economic returns a fluent builder for the economic projection.
func (e *Engine) Economic() *GraphBuilder { return e.graph(kindEconomic) }

func (e *Engine) graph(kind string) *GraphBuilder {
	return &GraphBuilder{engine: e, kind: kind}
}
