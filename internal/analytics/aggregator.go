package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/pkg/kafka"
)

// AggregatedStats is the dashboard payload served by the analytics service.
type AggregatedStats struct {
	TotalSearches      int64        `json:"total_searches"`
	ZeroResultCount    int64        `json:"zero_result_count"`
	CorrectionsApplied int64        `json:"corrections_applied"`
	CacheHits          int64        `json:"cache_hits"`
	CacheMisses        int64        `json:"cache_misses"`
	TotalViews         int64        `json:"total_views"`
	TotalCartAdds      int64        `json:"total_cart_adds"`
	TotalOrders        int64        `json:"total_orders"`
	AvgLatencyMs       float64      `json:"avg_latency_ms"`
	P50LatencyMs       int64        `json:"p50_latency_ms"`
	P95LatencyMs       int64        `json:"p95_latency_ms"`
	P99LatencyMs       int64        `json:"p99_latency_ms"`
	TopQueries         []QueryCount `json:"top_queries"`
	ZeroResultQueries  []QueryCount `json:"zero_result_queries"`
	TopViewedProducts  []QueryCount `json:"top_viewed_products"`
	QueriesPerMinute   float64      `json:"queries_per_minute"`
}

// QueryCount pairs a label (query string or product id) with its count.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator consumes analytics events from Kafka and keeps in-memory
// aggregates. State resets on restart; durable analytics live downstream of
// the topic, not here.
type Aggregator struct {
	mu                sync.RWMutex
	totalSearches     atomic.Int64
	zeroResults       atomic.Int64
	corrections       atomic.Int64
	cacheHits         atomic.Int64
	cacheMisses       atomic.Int64
	totalViews        atomic.Int64
	totalCartAdds     atomic.Int64
	totalOrders       atomic.Int64
	latencies         []int64
	queryCounts       map[string]int64
	zeroResultQueries map[string]int64
	productViews      map[string]int64
	startTime         time.Time

	logger *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:         make([]int64, 0, 10000),
		queryCounts:       make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		productViews:      make(map[string]int64),
		startTime:         time.Now(),
		logger:            slog.Default().With("component", "analytics-aggregator"),
	}
}

// HandleEvent returns the Kafka message handler feeding the aggregator.
// Events are routed on their type tag; undecodable events are logged and
// dropped so one bad producer cannot stall the consumer group.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		probe, err := kafka.DecodeJSON[struct {
			Type EventType `json:"type"`
		}](value)
		if err != nil {
			agg.logger.Error("failed to decode analytics event", "error", err)
			return nil
		}
		switch probe.Type {
		case EventSearch, EventZeroResult, EventSuggest:
			event, err := kafka.DecodeJSON[SearchEvent](value)
			if err != nil {
				agg.logger.Error("failed to decode search event", "error", err)
				return nil
			}
			agg.recordSearchEvent(event)
		case EventView, EventCart, EventOrder, EventCompare:
			event, err := kafka.DecodeJSON[EngagementEvent](value)
			if err != nil {
				agg.logger.Error("failed to decode engagement event", "error", err)
				return nil
			}
			agg.recordEngagementEvent(event)
		default:
			agg.logger.Warn("unknown analytics event type", "type", string(probe.Type))
		}
		return nil
	}
}

func (a *Aggregator) recordSearchEvent(event SearchEvent) {
	if event.Type == EventSuggest {
		return
	}
	a.totalSearches.Add(1)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.TotalHits == 0 {
		a.zeroResults.Add(1)
	}
	if event.CorrectedQuery != "" {
		a.corrections.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.queryCounts[event.Query]++
	if event.TotalHits == 0 {
		a.zeroResultQueries[event.Query]++
	}
	a.mu.Unlock()
}

func (a *Aggregator) recordEngagementEvent(event EngagementEvent) {
	switch event.Type {
	case EventView:
		a.totalViews.Add(1)
		a.mu.Lock()
		a.productViews[event.ProductID]++
		a.mu.Unlock()
	case EventCart:
		a.totalCartAdds.Add(1)
	case EventOrder:
		a.totalOrders.Add(1)
	}
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSearches:      a.totalSearches.Load(),
		ZeroResultCount:    a.zeroResults.Load(),
		CorrectionsApplied: a.corrections.Load(),
		CacheHits:          a.cacheHits.Load(),
		CacheMisses:        a.cacheMisses.Load(),
		TotalViews:         a.totalViews.Load(),
		TotalCartAdds:      a.totalCartAdds.Load(),
		TotalOrders:        a.totalOrders.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.ZeroResultQueries = topN(a.zeroResultQueries, 10)
	stats.TopViewedProducts = topN(a.productViews, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalSearches) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
