// Package metrics defines the Prometheus metric collectors used across the
// marketplace search backend and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the backend.
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInFlight   prometheus.Gauge
	SearchQueriesTotal     *prometheus.CounterVec
	SearchLatency          *prometheus.HistogramVec
	SearchResultsCount     prometheus.Histogram
	CorrectionsTotal       *prometheus.CounterVec
	SuggestionsTotal       prometheus.Counter
	RecommendationsTotal   *prometheus.CounterVec
	ProductViewsTotal      prometheus.Counter
	HistoryOpsTotal        *prometheus.CounterVec
	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
	CatalogProducts        prometheus.Gauge
	CatalogVendors         prometheus.Gauge
	CatalogRefreshesTotal  *prometheus.CounterVec
	CatalogSnapshotAgeSecs prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, corrected).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		CorrectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spelling_corrections_total",
				Help: "Spelling correction attempts by outcome (applied, none).",
			},
			[]string{"outcome"},
		),
		SuggestionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "suggestion_requests_total",
				Help: "Total instant-suggestion requests.",
			},
		),
		RecommendationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recommendation_requests_total",
				Help: "Recommendation requests by path (history, fallback, similar).",
			},
			[]string{"path"},
		),
		ProductViewsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "product_views_tracked_total",
				Help: "Product views recorded in the view-history store.",
			},
		),
		HistoryOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "history_store_ops_total",
				Help: "View-history store operations by op and status.",
			},
			[]string{"op", "status"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of search cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of search cache misses.",
			},
		),
		CatalogProducts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_products",
				Help: "Number of products in the current catalog snapshot.",
			},
		),
		CatalogVendors: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_vendors",
				Help: "Number of vendors in the current catalog snapshot.",
			},
		),
		CatalogRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_refreshes_total",
				Help: "Catalog snapshot refresh attempts by status.",
			},
			[]string{"status"},
		),
		CatalogSnapshotAgeSecs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_snapshot_age_seconds",
				Help: "Age of the current catalog snapshot in seconds.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CorrectionsTotal,
		m.SuggestionsTotal,
		m.RecommendationsTotal,
		m.ProductViewsTotal,
		m.HistoryOpsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CatalogProducts,
		m.CatalogVendors,
		m.CatalogRefreshesTotal,
		m.CatalogSnapshotAgeSecs,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
