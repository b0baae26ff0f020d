// Package handler exposes the search service HTTP API: ranked search with
// spelling-correction retry, instant suggestions, recommendations, similar
// products, and product-view tracking.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/analytics"
	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
	"github.com/TimothyBayode/lautechmarket-search/internal/history"
	"github.com/TimothyBayode/lautechmarket-search/internal/recommend"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/cache"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/corrector"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/scorer"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/suggest"
	"github.com/TimothyBayode/lautechmarket-search/pkg/config"
	apperrors "github.com/TimothyBayode/lautechmarket-search/pkg/errors"
	"github.com/TimothyBayode/lautechmarket-search/pkg/logger"
	"github.com/TimothyBayode/lautechmarket-search/pkg/metrics"
)

type Handler struct {
	snapshot  *catalog.Snapshot
	cache     *cache.QueryCache
	collector *analytics.Collector
	tracker   *history.Tracker
	engine    *recommend.Engine
	cfg       config.SearchConfig
	m         *metrics.Metrics
	logger    *slog.Logger
}

// New creates the handler. cache, collector, and m may be nil; the handler
// degrades to uncached, untracked operation.
func New(
	snapshot *catalog.Snapshot,
	queryCache *cache.QueryCache,
	collector *analytics.Collector,
	tracker *history.Tracker,
	engine *recommend.Engine,
	cfg config.SearchConfig,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		snapshot:  snapshot,
		cache:     queryCache,
		collector: collector,
		tracker:   tracker,
		engine:    engine,
		cfg:       cfg,
		m:         m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search ranks the catalog for the query. When the raw query returns nothing
// and a spelling correction exists, the corrected query is ranked instead
// and reported in the response.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "query parameter 'q' is required"))
		return
	}

	limit := h.cfg.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "limit must be a positive integer"))
			return
		}
		if parsed > h.cfg.MaxResults {
			parsed = h.cfg.MaxResults
		}
		limit = parsed
	}

	var result *cache.Result
	var err error
	cacheHit := false
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, limit, func() (*cache.Result, error) {
			return h.rank(query, limit), nil
		})
		if err != nil {
			log.Error("search failed", "query", query, "error", err)
			h.writeError(w, apperrors.New(apperrors.ErrInternal, http.StatusInternalServerError, "search failed"))
			return
		}
	} else {
		result = h.rank(query, limit)
	}

	latencyMs := time.Since(start).Milliseconds()
	log.Info("search completed",
		"query", query,
		"corrected", result.CorrectedQuery,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)
	h.recordSearch(result, cacheHit, start)

	if h.collector != nil {
		eventType := analytics.EventSearch
		if result.TotalHits == 0 {
			eventType = analytics.EventZeroResult
		}
		h.collector.Track(analytics.SearchEvent{
			Type:           eventType,
			Query:          query,
			CorrectedQuery: result.CorrectedQuery,
			TotalHits:      result.TotalHits,
			Returned:       len(result.Results),
			LatencyMs:      latencyMs,
			CacheHit:       cacheHit,
			Timestamp:      time.Now().UTC(),
			RequestID:      logger.RequestIDFromContext(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// rank scores the snapshot for the query, retrying once with a spelling
// correction when the raw query comes up empty.
func (h *Handler) rank(query string, limit int) *cache.Result {
	now := time.Now()
	products := h.snapshot.Products()

	ranked := scorer.Rank(products, query, now)
	result := &cache.Result{Query: query, Results: ranked}
	if len(ranked) == 0 {
		dict := corrector.BuildDictionary(products, h.snapshot.Vendors(), h.snapshot.Categories())
		if corrected, ok := corrector.Correct(query, dict); ok {
			if reranked := scorer.Rank(products, corrected, now); len(reranked) > 0 {
				result.CorrectedQuery = corrected
				result.Results = reranked
			}
		}
	}
	result.TotalHits = len(result.Results)
	if limit > 0 && len(result.Results) > limit {
		result.Results = result.Results[:limit]
	}
	return result
}

// Suggest serves the instant-search dropdown.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "query parameter 'q' is required"))
		return
	}
	if h.m != nil {
		h.m.SuggestionsTotal.Inc()
	}
	limits := suggest.Limits{
		Products:   h.cfg.SuggestionProducts,
		Vendors:    h.cfg.SuggestionVendors,
		Categories: h.cfg.SuggestionCategories,
	}
	result := suggest.For(
		query,
		h.snapshot.Products(),
		h.snapshot.Vendors(),
		h.snapshot.Categories(),
		limits,
		time.Now(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// Recommendations serves the buyer's home feed.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerFrom(r)
	if buyerID == "" {
		h.writeError(w, apperrors.ErrBuyerRequired)
		return
	}
	products := h.engine.ForBuyer(r.Context(), buyerID, time.Now())
	h.writeJSON(w, http.StatusOK, map[string]any{
		"buyer":    buyerID,
		"products": products,
	})
}

// Similar serves the similar-products strip on a product page.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	products, ok := h.engine.Similar(productID)
	if !ok {
		h.writeError(w, apperrors.ErrProductNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"product_id": productID,
		"products":   products,
	})
}

// TrackView records a product view in the buyer's history and emits an
// engagement event.
func (h *Handler) TrackView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")
	buyerID := buyerFrom(r)
	if buyerID == "" {
		h.writeError(w, apperrors.ErrBuyerRequired)
		return
	}
	product, ok := h.snapshot.ProductByID(productID)
	if !ok {
		h.writeError(w, apperrors.ErrProductNotFound)
		return
	}

	if err := h.tracker.TrackProductView(ctx, buyerID, productID); err != nil {
		logger.FromContext(ctx).Error("failed to track view",
			"buyer", buyerID,
			"product", productID,
			"error", err,
		)
		h.writeError(w, apperrors.New(apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable, "failed to track view"))
		return
	}

	if h.collector != nil {
		h.collector.Track(analytics.EngagementEvent{
			Type:      analytics.EventView,
			ProductID: productID,
			BuyerID:   buyerID,
			Category:  product.Category,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestIDFromContext(ctx),
		})
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "tracked"})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": strconv.FormatFloat(hitRate, 'f', 1, 64) + "%",
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, apperrors.New(apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable, "caching is disabled"))
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, apperrors.New(apperrors.ErrInternal, http.StatusInternalServerError, "cache invalidation failed"))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) recordSearch(result *cache.Result, cacheHit bool, start time.Time) {
	if h.m == nil {
		return
	}
	resultType := "hit"
	switch {
	case result.TotalHits == 0:
		resultType = "zero_result"
	case result.CorrectedQuery != "":
		resultType = "corrected"
	}
	h.m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.m.SearchResultsCount.Observe(float64(len(result.Results)))
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	h.m.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	if cacheHit {
		h.m.CacheHitsTotal.Inc()
	} else {
		h.m.CacheMissesTotal.Inc()
	}
	outcome := "none"
	if result.CorrectedQuery != "" {
		outcome = "applied"
	}
	h.m.CorrectionsTotal.WithLabelValues(outcome).Inc()
}

// buyerFrom reads the buyer id from the query string or the X-Buyer-ID
// header. Identity is asserted upstream; this service only scopes data.
func buyerFrom(r *http.Request) string {
	if buyer := r.URL.Query().Get("buyer"); buyer != "" {
		return buyer
	}
	return r.Header.Get("X-Buyer-ID")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// writeError maps err onto an HTTP status through the shared sentinel
// mapping and writes the client-facing message.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	h.writeJSON(w, apperrors.HTTPStatusCode(err), map[string]string{"error": message})
}
