package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TimothyBayode/lautechmarket-search/pkg/metrics"
)

// Tracker records product views into a ViewStore.
type Tracker struct {
	store ViewStore
	size  int
	m     *metrics.Metrics
	log   *slog.Logger
}

// NewTracker creates a Tracker capped at size entries per buyer. A size of
// zero or less falls back to DefaultSize. The metrics argument may be nil.
func NewTracker(store ViewStore, size int, m *metrics.Metrics) *Tracker {
	if size <= 0 {
		size = DefaultSize
	}
	return &Tracker{
		store: store,
		size:  size,
		m:     m,
		log:   slog.Default().With("component", "view-tracker"),
	}
}

// TrackProductView prepends productID to the buyer's history, removing any
// earlier occurrence of the same id and trimming to the cap. Read-then-write
// with no transaction: concurrent tabs race last-write-wins.
func (t *Tracker) TrackProductView(ctx context.Context, buyerID, productID string) error {
	ids, err := t.store.Get(ctx, buyerID)
	if err != nil {
		t.recordOp("get", "error")
		return fmt.Errorf("tracking view of %s: %w", productID, err)
	}
	t.recordOp("get", "ok")

	updated := make([]string, 0, len(ids)+1)
	updated = append(updated, productID)
	for _, id := range ids {
		if id == productID {
			continue
		}
		updated = append(updated, id)
	}
	if len(updated) > t.size {
		updated = updated[:t.size]
	}

	if err := t.store.Put(ctx, buyerID, updated); err != nil {
		t.recordOp("put", "error")
		return fmt.Errorf("tracking view of %s: %w", productID, err)
	}
	t.recordOp("put", "ok")
	if t.m != nil {
		t.m.ProductViewsTotal.Inc()
	}
	t.log.Debug("view tracked", "buyer", buyerID, "product", productID, "history_len", len(updated))
	return nil
}

// Recent returns the buyer's history, most recent first.
func (t *Tracker) Recent(ctx context.Context, buyerID string) ([]string, error) {
	ids, err := t.store.Get(ctx, buyerID)
	if err != nil {
		t.recordOp("get", "error")
		return nil, err
	}
	t.recordOp("get", "ok")
	return ids, nil
}

func (t *Tracker) recordOp(op, status string) {
	if t.m != nil {
		t.m.HistoryOpsTotal.WithLabelValues(op, status).Inc()
	}
}
