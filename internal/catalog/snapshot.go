package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/pkg/metrics"
	"github.com/TimothyBayode/lautechmarket-search/pkg/resilience"
)

// Source is the read surface the snapshot refreshes from. *Store satisfies
// it; tests supply an in-memory implementation.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Vendors(ctx context.Context) ([]Vendor, error)
	Categories(ctx context.Context) ([]string, error)
}

// SnapshotConfig controls refresh cadence and staleness reporting.
type SnapshotConfig struct {
	RefreshInterval time.Duration
	RefreshTimeout  time.Duration
	MaxStaleness    time.Duration
}

// Snapshot holds the latest in-memory copy of the catalog. Every search,
// suggestion, and recommendation request reads from it; a background loop
// refreshes it from the Source. Readers get the shared slices and must not
// mutate them.
type Snapshot struct {
	source Source
	cfg    SnapshotConfig
	m      *metrics.Metrics
	logger *slog.Logger

	mu          sync.RWMutex
	products    []Product
	vendors     []Vendor
	categories  []string
	refreshedAt time.Time
}

// NewSnapshot creates an empty snapshot. Call Refresh once before serving,
// then Run to keep it fresh. The metrics argument may be nil.
func NewSnapshot(source Source, cfg SnapshotConfig, m *metrics.Metrics) *Snapshot {
	return &Snapshot{
		source: source,
		cfg:    cfg,
		m:      m,
		logger: slog.Default().With("component", "catalog-snapshot"),
	}
}

// Refresh loads the catalog from the source and swaps it in atomically.
func (s *Snapshot) Refresh(ctx context.Context) error {
	refreshCtx := ctx
	if s.cfg.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		refreshCtx, cancel = context.WithTimeout(ctx, s.cfg.RefreshTimeout)
		defer cancel()
	}

	products, err := s.source.Products(refreshCtx)
	if err != nil {
		s.recordRefresh("error")
		return fmt.Errorf("refreshing products: %w", err)
	}
	vendors, err := s.source.Vendors(refreshCtx)
	if err != nil {
		s.recordRefresh("error")
		return fmt.Errorf("refreshing vendors: %w", err)
	}
	categories, err := s.source.Categories(refreshCtx)
	if err != nil {
		s.recordRefresh("error")
		return fmt.Errorf("refreshing categories: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.vendors = vendors
	s.categories = categories
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.recordRefresh("success")
	if s.m != nil {
		s.m.CatalogProducts.Set(float64(len(products)))
		s.m.CatalogVendors.Set(float64(len(vendors)))
	}
	s.logger.Info("catalog refreshed",
		"products", len(products),
		"vendors", len(vendors),
		"categories", len(categories),
	)
	return nil
}

// Run refreshes the snapshot on the configured interval until ctx is
// cancelled. Failed refreshes are retried with backoff and the previous
// snapshot keeps serving.
func (s *Snapshot) Run(ctx context.Context) {
	interval := s.cfg.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot refresher stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			err := resilience.Retry(ctx, "catalog-refresh", resilience.RetryConfig{}, func() error {
				return s.Refresh(ctx)
			})
			if err != nil {
				s.logger.Error("catalog refresh failed, serving stale snapshot",
					"age", time.Since(s.RefreshedAt()).Round(time.Second),
					"error", err,
				)
			}
			if s.m != nil {
				s.m.CatalogSnapshotAgeSecs.Set(time.Since(s.RefreshedAt()).Seconds())
			}
		}
	}
}

// Products returns the current product list.
func (s *Snapshot) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Vendors returns the current vendor list.
func (s *Snapshot) Vendors() []Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors
}

// Categories returns the curated category labels.
func (s *Snapshot) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// ProductByID returns the product with the given id from the snapshot.
func (s *Snapshot) ProductByID(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// RefreshedAt returns the time of the last successful refresh.
func (s *Snapshot) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Stale reports whether the snapshot is older than the configured maximum.
func (s *Snapshot) Stale() bool {
	if s.cfg.MaxStaleness <= 0 {
		return false
	}
	return time.Since(s.RefreshedAt()) > s.cfg.MaxStaleness
}

func (s *Snapshot) recordRefresh(status string) {
	if s.m != nil {
		s.m.CatalogRefreshesTotal.WithLabelValues(status).Inc()
	}
}
