package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/config"
	"github.com/Bestroi150/georgievi-network/internal/db"
	dbMemory "github.com/Bestroi150/georgievi-network/internal/db/memory"
	dbRedis "github.com/Bestroi150/georgievi-network/internal/db/redis"
	logpkg "github.com/Bestroi150/georgievi-network/internal/logger"
	"github.com/Bestroi150/georgievi-network/internal/metrics"
	"github.com/Bestroi150/georgievi-network/internal/repository/graphcache"
	"github.com/Bestroi150/georgievi-network/internal/repository/letters"
	chiTransport "github.com/Bestroi150/georgievi-network/internal/transport/chi"
	openaiExt "github.com/Bestroi150/georgievi-network/internal/transport/openai"
	buildUc "github.com/Bestroi150/georgievi-network/internal/usecase/build"
	extractuc "github.com/Bestroi150/georgievi-network/internal/usecase/extract"
	healthuc "github.com/Bestroi150/georgievi-network/internal/usecase/health"
	ingestuc "github.com/Bestroi150/georgievi-network/internal/usecase/ingest"
	sequenceuc "github.com/Bestroi150/georgievi-network/internal/usecase/sequence"
	"github.com/Bestroi150/georgievi-network/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting georgievi API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Create cache store based on driver
	var cacheStore db.Store
	switch cfg.Cache.Driver {
	case "memory":
		cacheStore = dbMemory.NewStore()
	case "redis":
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer cacheStore.Close()

	// Wait for cache to be ready
	ctx := context.Background()
	if err := cacheStore.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	geoPolicy, err := buildUc.ParseGeoPolicy(cfg.Engine.GeoEdgePolicy)
	if err != nil {
		logger.Fatal("Invalid geo edge policy", zap.Error(err))
	}
	datePolicy, err := ingestuc.ParseDatePolicy(cfg.Engine.DatePolicy)
	if err != nil {
		logger.Fatal("Invalid date policy", zap.Error(err))
	}

	// Record store and builder chain: direct builds decorated with the
	// generation-keyed projection cache.
	store := letters.NewStore()
	buildSvc := buildUc.New(store, geoPolicy)
	cachedBuilder := graphcache.New(buildSvc, store, cacheStore, metrics.GraphCacheTotal, logger)

	extractor, extractorChecker := buildExtractor(cfg.Extractor, logger)

	ingestSvc := ingestuc.New(store, extractor, cachedBuilder, datePolicy, logger)
	sequenceSvc := sequenceuc.New(cachedBuilder, store)
	healthSvc := healthuc.New(cacheStore, extractorChecker)

	// Create chi server
	server := chiTransport.NewServer(
		ingestSvc, cachedBuilder, sequenceSvc, store, healthSvc,
		cfg.Engine.CommunitySeed, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildExtractor assembles the topic extraction provider. Returns a nil
// extractor when no driver is configured: records without curated labels
// then stay unlabeled.
func buildExtractor(
	cfg config.ExtractorConfig, logger *zap.Logger,
) (ingestuc.Extractor, healthuc.ExtractorChecker) {
	switch cfg.Driver {
	case "lexicon":
		logger.Info("Using lexicon extractor",
			zap.Int("topics", len(cfg.Topics)),
			zap.Int("commodities", len(cfg.Commodities)),
		)
		return extractuc.NewLexicon(cfg.Topics, cfg.Commodities), nil
	case "openai":
		logger.Info("Using openai extractor",
			zap.String("model", cfg.Model),
			zap.String("provider", cfg.Provider),
		)
		ext := openaiExt.NewExtractor(&openaiExt.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		})
		return ext, ext
	default:
		return nil, nil
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
