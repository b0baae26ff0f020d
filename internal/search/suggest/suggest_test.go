package suggest

import (
	"fmt"
	"testing"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func fixtureProducts(n int) []catalog.Product {
	products := make([]catalog.Product, n)
	for i := range products {
		products[i] = catalog.Product{
			ID:        fmt.Sprintf("p-%d", i),
			Name:      fmt.Sprintf("Phone Case %d", i),
			Category:  "Accessories",
			Price:     1500,
			InStock:   true,
			ViewCount: n - i,
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		}
	}
	return products
}

func TestForSectionCaps(t *testing.T) {
	products := fixtureProducts(10)
	vendors := []catalog.Vendor{
		{ID: "v-1", DisplayName: "Phone Palace"},
		{ID: "v-2", BusinessName: "Campus Phones Ltd"},
		{ID: "v-3", DisplayName: "Phone Depot"},
	}
	categories := []string{"Phones", "Phone Accessories", "Phone Repairs", "Phone Cases"}

	got := For("phone", products, vendors, categories, DefaultLimits(), now)

	if len(got.Products) != 4 {
		t.Errorf("products = %d, want 4", len(got.Products))
	}
	if len(got.Vendors) != 2 {
		t.Errorf("vendors = %d, want 2", len(got.Vendors))
	}
	if len(got.Categories) != 3 {
		t.Errorf("categories = %d, want 3", len(got.Categories))
	}
}

func TestForVendorsKeepInputOrder(t *testing.T) {
	vendors := []catalog.Vendor{
		{ID: "v-later", DisplayName: "Zara Phones"},
		{ID: "v-earlier", DisplayName: "Abu Phones"},
	}
	got := For("phone", nil, vendors, nil, DefaultLimits(), now)
	if len(got.Vendors) != 2 {
		t.Fatalf("vendors = %d, want 2", len(got.Vendors))
	}
	if got.Vendors[0].ID != "v-later" || got.Vendors[1].ID != "v-earlier" {
		t.Errorf("vendor order = [%s %s], want input order", got.Vendors[0].ID, got.Vendors[1].ID)
	}
}

func TestForProductsRankedByScore(t *testing.T) {
	exact := catalog.Product{ID: "exact", Name: "Phone Case", Category: "Accessories", CreatedAt: now.Add(-30 * 24 * time.Hour)}
	partial := catalog.Product{ID: "partial", Name: "Laptop Case for Phone Repair", Category: "Accessories", CreatedAt: now.Add(-30 * 24 * time.Hour)}

	got := For("phone case", []catalog.Product{partial, exact}, nil, nil, DefaultLimits(), now)
	if len(got.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(got.Products))
	}
	if got.Products[0].ID != "exact" {
		t.Errorf("top product = %s, want exact", got.Products[0].ID)
	}
	if got.Products[0].Score <= got.Products[1].Score {
		t.Errorf("scores not descending: %v <= %v", got.Products[0].Score, got.Products[1].Score)
	}
}

func TestForEmptyQuery(t *testing.T) {
	got := For("   ", fixtureProducts(3), nil, []string{"Phones"}, DefaultLimits(), now)
	if len(got.Products) != 0 || len(got.Vendors) != 0 || len(got.Categories) != 0 {
		t.Errorf("empty query must yield empty sections, got %+v", got)
	}
	if got.Products == nil || got.Vendors == nil || got.Categories == nil {
		t.Error("sections must be empty slices, not nil, so JSON encodes [] not null")
	}
}

func TestForCorrectedQuery(t *testing.T) {
	products := []catalog.Product{
		{ID: "p-1", Name: "Samsung Phone", Category: "Electronics", CreatedAt: now},
	}
	got := For("pone", products, nil, nil, DefaultLimits(), now)
	if got.CorrectedQuery != "phone" {
		t.Errorf("CorrectedQuery = %q, want phone", got.CorrectedQuery)
	}

	got = For("phone", products, nil, nil, DefaultLimits(), now)
	if got.CorrectedQuery != "" {
		t.Errorf("CorrectedQuery = %q, want empty for a clean query", got.CorrectedQuery)
	}
}

func TestForCategoryMatchCaseInsensitive(t *testing.T) {
	got := For("FASHION", nil, nil, []string{"Fashion", "Food Items"}, DefaultLimits(), now)
	if len(got.Categories) != 1 || got.Categories[0] != "Fashion" {
		t.Errorf("categories = %v, want [Fashion]", got.Categories)
	}
}
