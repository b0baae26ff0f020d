package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
	"github.com/TimothyBayode/lautechmarket-search/internal/history"
	"github.com/TimothyBayode/lautechmarket-search/internal/recommend"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/cache"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/suggest"
	"github.com/TimothyBayode/lautechmarket-search/pkg/config"
)

type fixtureSource struct {
	products   []catalog.Product
	vendors    []catalog.Vendor
	categories []string
}

func (f fixtureSource) Products(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f fixtureSource) Vendors(ctx context.Context) ([]catalog.Vendor, error) {
	return f.vendors, nil
}

func (f fixtureSource) Categories(ctx context.Context) ([]string, error) {
	return f.categories, nil
}

func testHandler(t *testing.T) (*Handler, *history.MemoryStore) {
	t.Helper()
	now := time.Now()
	source := fixtureSource{
		products: []catalog.Product{
			{ID: "p-1", Name: "Samsung Phone", Category: "Electronics", Price: 150000, InStock: true, CreatedAt: now.Add(-60 * 24 * time.Hour)},
			{ID: "p-2", Name: "Phone Case", Category: "Accessories", Price: 1500, InStock: true, CreatedAt: now.Add(-60 * 24 * time.Hour)},
			{ID: "p-3", Name: "Rice Cooker", Category: "Kitchen", Price: 20000, InStock: true, CreatedAt: now.Add(-60 * 24 * time.Hour)},
		},
		vendors: []catalog.Vendor{
			{ID: "v-1", DisplayName: "Phone Palace", ActiveNow: true},
		},
		categories: []string{"Electronics", "Accessories", "Kitchen"},
	}
	snapshot := catalog.NewSnapshot(source, catalog.SnapshotConfig{}, nil)
	if err := snapshot.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	store := history.NewMemoryStore()
	tracker := history.NewTracker(store, history.DefaultSize, nil)
	engine := recommend.NewEngine(snapshot, store, 10, 4, nil)

	cfg := config.SearchConfig{
		DefaultLimit:         25,
		MaxResults:           100,
		SuggestionProducts:   4,
		SuggestionVendors:    2,
		SuggestionCategories: 3,
	}
	return New(snapshot, nil, nil, tracker, engine, cfg, nil), store
}

func TestSearchEndpoint(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=phone", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result cache.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want 2", result.TotalHits)
	}
	for _, s := range result.Results {
		if s.Product.ID == "p-3" {
			t.Error("rice cooker must not match a phone search")
		}
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchRejectsBadLimit(t *testing.T) {
	h, _ := testHandler(t)
	for _, limit := range []string{"0", "-5", "abc"} {
		rec := httptest.NewRecorder()
		h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=phone&limit="+limit, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestSearchLimitCapsResults(t *testing.T) {
	h, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=phone&limit=1", nil))

	var result cache.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want full hit count before truncation", result.TotalHits)
	}
	if len(result.Results) != 1 {
		t.Errorf("returned = %d, want 1", len(result.Results))
	}
}

func TestSearchCorrectsMisspelledQuery(t *testing.T) {
	h, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=pone", nil))

	var result cache.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.CorrectedQuery != "phone" {
		t.Errorf("CorrectedQuery = %q, want phone", result.CorrectedQuery)
	}
	if result.TotalHits == 0 {
		t.Error("corrected query should produce results")
	}
}

func TestSuggestEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet, "/api/v1/suggest?q=phone", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got suggest.Suggestions
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Products) != 2 {
		t.Errorf("products = %d, want 2", len(got.Products))
	}
	if len(got.Vendors) != 1 || got.Vendors[0].DisplayName != "Phone Palace" {
		t.Errorf("vendors = %v, want Phone Palace", got.Vendors)
	}
}

func TestTrackViewAndRecommendations(t *testing.T) {
	h, store := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p-1/view?buyer=ada", nil)
	req.SetPathValue("id", "p-1")
	rec := httptest.NewRecorder()
	h.TrackView(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("track status = %d, want 202", rec.Code)
	}

	ids, err := store.Get(context.Background(), "ada")
	if err != nil || len(ids) != 1 || ids[0] != "p-1" {
		t.Fatalf("history = (%v, %v), want [p-1]", ids, err)
	}

	rec = httptest.NewRecorder()
	h.Recommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?buyer=ada", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations status = %d, want 200", rec.Code)
	}
	var payload struct {
		Buyer    string            `json:"buyer"`
		Products []catalog.Product `json:"products"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, p := range payload.Products {
		if p.ID == "p-1" {
			t.Error("viewed product must not be recommended")
		}
	}
}

func TestTrackViewUnknownProduct(t *testing.T) {
	h, _ := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/ghost/view?buyer=ada", nil)
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	h.TrackView(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTrackViewRequiresBuyer(t *testing.T) {
	h, _ := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p-1/view", nil)
	req.SetPathValue("id", "p-1")
	rec := httptest.NewRecorder()
	h.TrackView(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendationsBuyerHeader(t *testing.T) {
	h, _ := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	req.Header.Set("X-Buyer-ID", "bola")
	rec := httptest.NewRecorder()
	h.Recommendations(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with header buyer id", rec.Code)
	}
}

func TestSimilarEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/p-1/similar", nil)
	req.SetPathValue("id", "p-1")
	rec := httptest.NewRecorder()
	h.Similar(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost/similar", nil)
	req.SetPathValue("id", "ghost")
	rec = httptest.NewRecorder()
	h.Similar(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown product", rec.Code)
	}
}

func TestCacheStatsDisabled(t *testing.T) {
	h, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.CacheStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search/cache/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "disabled" {
		t.Errorf("status = %q, want disabled when cache is nil", payload["status"])
	}

	rec = httptest.NewRecorder()
	h.CacheInvalidate(rec, httptest.NewRequest(http.MethodPost, "/api/v1/search/cache/invalidate", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("invalidate status = %d, want 503 when cache is nil", rec.Code)
	}
}
