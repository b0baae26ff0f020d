package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventSuggest    EventType = "suggest"
	EventZeroResult EventType = "zero_result"
	EventView       EventType = "product_view"
	EventCart       EventType = "add_to_cart"
	EventOrder      EventType = "order"
	EventCompare    EventType = "compare"
)

// SearchEvent is emitted for every ranked search request.
type SearchEvent struct {
	Type           EventType `json:"type"`
	Query          string    `json:"query"`
	CorrectedQuery string    `json:"corrected_query,omitempty"`
	TotalHits      int       `json:"total_hits"`
	Returned       int       `json:"returned"`
	LatencyMs      int64     `json:"latency_ms"`
	CacheHit       bool      `json:"cache_hit"`
	Timestamp      time.Time `json:"timestamp"`
	RequestID      string    `json:"request_id"`
}

// EngagementEvent is emitted when a buyer interacts with a product.
type EngagementEvent struct {
	Type      EventType `json:"type"`
	ProductID string    `json:"product_id"`
	BuyerID   string    `json:"buyer_id,omitempty"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}
