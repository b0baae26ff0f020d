// Command search starts the marketplace search service.
//
// It loads the catalog from Postgres into an in-memory snapshot, serves
// ranked search, instant suggestions, recommendations, and view tracking
// over HTTP, caches results in Redis, and publishes analytics events to
// Kafka.
//
// Usage:
//
//	go run ./cmd/search [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/analytics"
	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
	"github.com/TimothyBayode/lautechmarket-search/internal/history"
	"github.com/TimothyBayode/lautechmarket-search/internal/recommend"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/cache"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/handler"
	"github.com/TimothyBayode/lautechmarket-search/pkg/config"
	"github.com/TimothyBayode/lautechmarket-search/pkg/health"
	"github.com/TimothyBayode/lautechmarket-search/pkg/kafka"
	"github.com/TimothyBayode/lautechmarket-search/pkg/logger"
	"github.com/TimothyBayode/lautechmarket-search/pkg/metrics"
	"github.com/TimothyBayode/lautechmarket-search/pkg/middleware"
	"github.com/TimothyBayode/lautechmarket-search/pkg/postgres"
	pkgredis "github.com/TimothyBayode/lautechmarket-search/pkg/redis"
	"github.com/TimothyBayode/lautechmarket-search/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	pgClient, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := catalog.NewStore(pgClient)
	snapshot := catalog.NewSnapshot(store, catalog.SnapshotConfig{
		RefreshInterval: cfg.Catalog.RefreshInterval,
		RefreshTimeout:  cfg.Catalog.RefreshTimeout,
		MaxStaleness:    cfg.Catalog.MaxStaleness,
	}, m)
	err = resilience.WithTimeout(ctx, 30*time.Second, "initial-catalog-load", func(ctx context.Context) error {
		return snapshot.Refresh(ctx)
	})
	if err != nil {
		slog.Error("initial catalog load failed", "error", err)
		os.Exit(1)
	}
	go snapshot.Run(ctx)
	slog.Info("catalog snapshot loaded",
		"products", len(snapshot.Products()),
		"vendors", len(snapshot.Vendors()),
	)

	var queryCache *cache.QueryCache
	var viewStore history.ViewStore
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, caching disabled and view history in-memory", "error", err)
		viewStore = history.NewMemoryStore()
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		viewStore = history.NewRedisStore(redisClient, 0)
		slog.Info("redis connected", "addr", cfg.Redis.Addr, "cache_ttl", cfg.Redis.CacheTTL)
	}

	analyticsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
	defer analyticsProducer.Close()
	collector := analytics.NewCollector(analyticsProducer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.AnalyticsEvents)

	tracker := history.NewTracker(viewStore, cfg.Recommend.HistorySize, m)
	engine := recommend.NewEngine(snapshot, viewStore, cfg.Recommend.MaxRecommendations, cfg.Recommend.MaxSimilar, m)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pgClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("catalog", func(ctx context.Context) health.ComponentHealth {
		if snapshot.Stale() {
			return health.ComponentHealth{
				Status:  health.StatusDegraded,
				Message: fmt.Sprintf("snapshot age %s", time.Since(snapshot.RefreshedAt()).Round(time.Second)),
			}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d products", len(snapshot.Products())),
		}
	})

	h := handler.New(snapshot, queryCache, collector, tracker, engine, cfg.Search, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest)
	mux.HandleFunc("GET /api/v1/recommendations", h.Recommendations)
	mux.HandleFunc("GET /api/v1/products/{id}/similar", h.Similar)
	mux.HandleFunc("POST /api/v1/products/{id}/view", h.TrackView)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
