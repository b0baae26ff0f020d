package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
	"github.com/TimothyBayode/lautechmarket-search/internal/history"
	"github.com/TimothyBayode/lautechmarket-search/pkg/metrics"
)

// Engine wires the pure ranking functions to the catalog snapshot and the
// buyer's view history.
type Engine struct {
	snapshot *catalog.Snapshot
	views    history.ViewStore
	maxRecs  int
	maxSim   int
	m        *metrics.Metrics
	logger   *slog.Logger
}

// NewEngine creates an Engine. The metrics argument may be nil.
func NewEngine(snapshot *catalog.Snapshot, views history.ViewStore, maxRecs, maxSim int, m *metrics.Metrics) *Engine {
	if maxRecs <= 0 {
		maxRecs = 10
	}
	if maxSim <= 0 {
		maxSim = 4
	}
	return &Engine{
		snapshot: snapshot,
		views:    views,
		maxRecs:  maxRecs,
		maxSim:   maxSim,
		m:        m,
		logger:   slog.Default().With("component", "recommend-engine"),
	}
}

// ForBuyer returns recommendations for the buyer. A failed or corrupt
// history read degrades to the popularity fallback; the failure is logged
// and never surfaced.
func (e *Engine) ForBuyer(ctx context.Context, buyerID string, now time.Time) []catalog.Product {
	products := e.snapshot.Products()
	historyIDs, err := e.views.Get(ctx, buyerID)
	if err != nil {
		e.logger.Warn("view history unavailable, using popularity fallback",
			"buyer", buyerID,
			"error", err,
		)
		e.recordPath("fallback")
		return PopularityFallback(products, e.maxRecs)
	}
	e.recordPath("history")
	return Recommendations(products, historyIDs, now, e.maxRecs)
}

// Similar returns products similar to the given product id, or false when
// the id is not in the snapshot.
func (e *Engine) Similar(productID string) ([]catalog.Product, bool) {
	ref, ok := e.snapshot.ProductByID(productID)
	if !ok {
		return nil, false
	}
	e.recordPath("similar")
	return SimilarProducts(ref, e.snapshot.Products(), e.maxSim), true
}

func (e *Engine) recordPath(path string) {
	if e.m != nil {
		e.m.RecommendationsTotal.WithLabelValues(path).Inc()
	}
}
