package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func oldProduct(id, category string) catalog.Product {
	return catalog.Product{
		ID:        id,
		Name:      "Product " + id,
		Category:  category,
		CreatedAt: now.Add(-60 * 24 * time.Hour),
	}
}

func TestRecommendationsExcludeHistory(t *testing.T) {
	products := []catalog.Product{
		oldProduct("seen", "Fashion"),
		oldProduct("fresh", "Fashion"),
	}
	got := Recommendations(products, []string{"seen"}, now, 10)
	for _, p := range got {
		if p.ID == "seen" {
			t.Error("viewed product must not be recommended again")
		}
	}
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Errorf("got %d products, want [fresh]", len(got))
	}
}

func TestRecommendationsCategoryAffinity(t *testing.T) {
	products := []catalog.Product{
		oldProduct("viewed-1", "Electronics"),
		oldProduct("viewed-2", "Electronics"),
		oldProduct("electronics-candidate", "Electronics"),
		oldProduct("fashion-candidate", "Fashion"),
	}
	// Two history items in Electronics give the candidate 100 affinity points.
	got := Recommendations(products, []string{"viewed-1", "viewed-2"}, now, 10)
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].ID != "electronics-candidate" {
		t.Errorf("top recommendation = %s, want electronics-candidate", got[0].ID)
	}
}

func TestRecommendationsEngagementBreaksAffinityTie(t *testing.T) {
	popular := oldProduct("popular", "Books")
	popular.OrderCount = 4
	quiet := oldProduct("quiet", "Books")

	got := Recommendations([]catalog.Product{quiet, popular}, nil, now, 10)
	if len(got) != 2 || got[0].ID != "popular" {
		t.Errorf("engagement should break ties, got %v", ids(got))
	}
}

func TestRecommendationsRecentCreationBonus(t *testing.T) {
	recent := oldProduct("recent", "Books")
	recent.CreatedAt = now.Add(-24 * time.Hour)
	stale := oldProduct("stale", "Books")
	stale.ViewCount = 19 // just under the 20 point recency bonus

	got := Recommendations([]catalog.Product{stale, recent}, nil, now, 10)
	if len(got) != 2 || got[0].ID != "recent" {
		t.Errorf("recent creation should outrank 19 views, got %v", ids(got))
	}
}

func TestRecommendationsCap(t *testing.T) {
	products := make([]catalog.Product, 25)
	for i := range products {
		products[i] = oldProduct(fmt.Sprintf("p-%d", i), "Fashion")
	}
	got := Recommendations(products, nil, now, 10)
	if len(got) != 10 {
		t.Errorf("got %d products, want 10", len(got))
	}
}

func TestPopularityFallback(t *testing.T) {
	a := oldProduct("a", "Fashion")
	a.OrderCount = 3
	b := oldProduct("b", "Books")
	b.OrderCount = 9
	c := oldProduct("c", "Food")

	got := PopularityFallback([]catalog.Product{a, b, c}, 2)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("fallback order = %v, want [b a]", ids(got))
	}
}

func TestSimilarProducts(t *testing.T) {
	ref := catalog.Product{ID: "ref", Category: "Electronics", Bucket: "gadgets", Price: 1000}
	products := []catalog.Product{
		ref,
		{ID: "all-three", Category: "Electronics", Bucket: "gadgets", Price: 1100},
		{ID: "category-only", Category: "Electronics", Bucket: "audio", Price: 5000},
		{ID: "price-only", Category: "Fashion", Bucket: "apparel", Price: 900},
		{ID: "nothing", Category: "Food", Bucket: "snacks", Price: 50},
	}

	got := SimilarProducts(ref, products, 10)
	if len(got) != 3 {
		t.Fatalf("got %v, want 3 similar products", ids(got))
	}
	if got[0].ID != "all-three" {
		t.Errorf("top similar = %s, want all-three", got[0].ID)
	}
	for _, p := range got {
		if p.ID == "ref" {
			t.Error("reference product must be excluded")
		}
		if p.ID == "nothing" {
			t.Error("product with no similarity signal must be excluded")
		}
	}
}

func TestWithinPriceBand(t *testing.T) {
	cases := []struct {
		price, ref float64
		want       bool
	}{
		{1000, 1000, true},
		{1300, 1000, true},
		{700, 1000, true},
		{1301, 1000, false},
		{699, 1000, false},
		{0, 0, true},
	}
	for _, tc := range cases {
		if got := withinPriceBand(tc.price, tc.ref); got != tc.want {
			t.Errorf("withinPriceBand(%v, %v) = %v, want %v", tc.price, tc.ref, got, tc.want)
		}
	}
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, buyerID string) ([]string, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Put(ctx context.Context, buyerID string, ids []string) error {
	return errors.New("connection refused")
}

type staticSource struct {
	products []catalog.Product
}

func (s staticSource) Products(ctx context.Context) ([]catalog.Product, error) { return s.products, nil }
func (s staticSource) Vendors(ctx context.Context) ([]catalog.Vendor, error)  { return nil, nil }
func (s staticSource) Categories(ctx context.Context) ([]string, error)       { return nil, nil }

func TestEngineFallsBackOnHistoryError(t *testing.T) {
	a := oldProduct("a", "Fashion")
	a.OrderCount = 1
	b := oldProduct("b", "Books")
	b.OrderCount = 7

	snapshot := catalog.NewSnapshot(staticSource{products: []catalog.Product{a, b}}, catalog.SnapshotConfig{}, nil)
	if err := snapshot.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	engine := NewEngine(snapshot, failingStore{}, 10, 4, nil)
	got := engine.ForBuyer(context.Background(), "buyer-1", now)
	if len(got) != 2 || got[0].ID != "b" {
		t.Errorf("fallback should rank by orders, got %v", ids(got))
	}
}

func TestEngineSimilarUnknownProduct(t *testing.T) {
	snapshot := catalog.NewSnapshot(staticSource{}, catalog.SnapshotConfig{}, nil)
	if err := snapshot.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	engine := NewEngine(snapshot, failingStore{}, 10, 4, nil)
	if _, ok := engine.Similar("missing"); ok {
		t.Error("unknown product id must report not found")
	}
}

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
