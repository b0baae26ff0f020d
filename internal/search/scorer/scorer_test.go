package scorer

import (
	"fmt"
	"testing"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func product(name, category string) catalog.Product {
	return catalog.Product{
		ID:        "p-" + name,
		Name:      name,
		Category:  category,
		CreatedAt: now.Add(-30 * 24 * time.Hour),
	}
}

func TestScoreNonNegative(t *testing.T) {
	products := []catalog.Product{
		product("Red Shirt", "Fashion"),
		product("Calculus Textbook", "Books"),
		{ID: "empty"},
		{ID: "negative-ish", Name: "x", Description: "y"},
	}
	queries := []string{"shirt", "laptop charger", "zzzz", "a", "  ", "red shirt fashion"}
	for _, p := range products {
		for _, q := range queries {
			if got := Score(p, q, now); got < 0 {
				t.Errorf("Score(%q, %q) = %v, want >= 0", p.Name, q, got)
			}
		}
	}
}

func TestScoreFullNameMatchDominates(t *testing.T) {
	full := product("iPhone Case", "Accessories")
	partial := product("iPhone Accessories Stand", "Accessories")

	fullScore := Score(full, "iphone case", now)
	partialScore := Score(partial, "iphone case", now)

	if fullScore <= partialScore {
		t.Fatalf("full match %v should outrank partial %v", fullScore, partialScore)
	}
	if fullScore-partialScore < 300 {
		t.Errorf("full-phrase bonus missing: diff = %v, want >= 300", fullScore-partialScore)
	}
}

func TestScoreNoKeywords(t *testing.T) {
	p := product("Red Shirt", "Fashion")
	for _, q := range []string{"", "   ", "a", "a b c"} {
		if got := Score(p, q, now); got != 0 {
			t.Errorf("Score(%q) = %v, want 0", q, got)
		}
	}
}

func TestEngagementCapped(t *testing.T) {
	heavy := product("Calculus Textbook", "Books")
	heavy.OrderCount = 1000
	light := product("Calculus Textbook", "Books")
	light.OrderCount = 5

	heavyScore := Score(heavy, "calculus", now)
	lightScore := Score(light, "calculus", now)
	if heavyScore != lightScore {
		t.Errorf("engagement should cap at 50: heavy=%v light=%v", heavyScore, lightScore)
	}
}

func TestFreshnessTiers(t *testing.T) {
	cases := []struct {
		name      string
		createdAt time.Time
		updatedAt time.Time
		want      float64
	}{
		{"created_today", now.Add(-2 * time.Hour), time.Time{}, 30},
		{"created_this_week", now.Add(-5 * 24 * time.Hour), time.Time{}, 20},
		{"updated_today", now.Add(-30 * 24 * time.Hour), now.Add(-3 * time.Hour), 15},
		{"stale", now.Add(-30 * 24 * time.Hour), time.Time{}, 5},
		{"zero_timestamps", time.Time{}, time.Time{}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := catalog.Product{CreatedAt: tc.createdAt, UpdatedAt: tc.updatedAt}
			if got := freshness(p, now); got != tc.want {
				t.Errorf("freshness = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRankFreshnessBreaksKeywordTie(t *testing.T) {
	red := product("Red Shirt", "Fashion")
	red.CreatedAt = now.Add(-1 * time.Hour)
	blue := product("Blue Shirt", "Fashion")
	blue.CreatedAt = now.Add(-365 * 24 * time.Hour)

	ranked := Rank([]catalog.Product{blue, red}, "shirt", now)
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].Product.Name != "Red Shirt" {
		t.Errorf("fresher product should rank first, got %q", ranked[0].Product.Name)
	}
	if diff := ranked[0].Score - ranked[1].Score; diff != 25 {
		t.Errorf("freshness tier gap = %v, want 25 (30 vs 5)", diff)
	}
}

func TestRankEmptyQueryReturnsInputUnchanged(t *testing.T) {
	products := []catalog.Product{
		product("Zeta", "Books"),
		product("Alpha", "Fashion"),
		product("Mid", "Food"),
	}
	for _, q := range []string{"", "   "} {
		ranked := Rank(products, q, now)
		if len(ranked) != len(products) {
			t.Fatalf("Rank(%q) returned %d items, want %d", q, len(ranked), len(products))
		}
		for i := range products {
			if ranked[i].Product.ID != products[i].ID {
				t.Errorf("Rank(%q)[%d] = %q, want input order preserved", q, i, ranked[i].Product.ID)
			}
			if ranked[i].Score != 0 {
				t.Errorf("Rank(%q)[%d].Score = %v, want 0 (unscored)", q, i, ranked[i].Score)
			}
		}
	}
}

func TestRankDropsZeroScores(t *testing.T) {
	products := []catalog.Product{
		product("Red Shirt", "Fashion"),
		product("Rice Cooker", "Kitchen"),
	}
	ranked := Rank(products, "shirt", now)
	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1", len(ranked))
	}
	if ranked[0].Product.Name != "Red Shirt" {
		t.Errorf("unexpected survivor %q", ranked[0].Product.Name)
	}
}

func TestRankStableTies(t *testing.T) {
	first := product("Plain Shirt", "Fashion")
	first.ID = "first"
	second := product("Plain Shirt", "Fashion")
	second.ID = "second"

	ranked := Rank([]catalog.Product{first, second}, "shirt", now)
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].Product.ID != "first" || ranked[1].Product.ID != "second" {
		t.Errorf("ties must keep catalog order, got [%s %s]", ranked[0].Product.ID, ranked[1].Product.ID)
	}
}

func TestAllTermsBonus(t *testing.T) {
	both := product("Leather Bag", "Fashion")
	one := product("Leather Wallet", "Fashion")

	bothScore := Score(both, "leather bag", now)
	oneScore := Score(one, "leather bag", now)
	if bothScore <= oneScore {
		t.Fatalf("matching every term should win: both=%v one=%v", bothScore, oneScore)
	}
}

func TestSynonymBoostAccumulates(t *testing.T) {
	p := product("Phone Stand", "Accessories")

	single := Score(p, "mobile", now)
	double := Score(p, "mobile mobile", now)
	if double-single != synonymBoost {
		t.Errorf("synonym boost should accumulate per keyword hit: single=%v double=%v", single, double)
	}
}

func TestSynonymRequiresConceptSurface(t *testing.T) {
	noSurface := product("Desk Stand", "Accessories")
	if boost := synonymRelevance([]string{"mobile"}, "desk stand", "accessories"); boost != 0 {
		t.Errorf("boost = %v, want 0 when concept absent from name and category", boost)
	}
	if got := Score(noSurface, "mobile", now); got != 0 {
		t.Errorf("Score = %v, want 0 without any relevance signal", got)
	}
}

func TestScoreIdempotent(t *testing.T) {
	p := product("Red Shirt", "Fashion")
	p.ViewCount = 7
	p.CartCount = 2
	a := Score(p, "red shirt", now)
	b := Score(p, "red shirt", now)
	if a != b {
		t.Errorf("scoring is not deterministic: %v != %v", a, b)
	}
}

func BenchmarkRank(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	categories := []string{"Fashion", "Electronics", "Books", "Food"}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("products_%d", size), func(b *testing.B) {
			products := make([]catalog.Product, size)
			for i := range products {
				products[i] = catalog.Product{
					ID:         fmt.Sprintf("p-%d", i),
					Name:       fmt.Sprintf("Sample Product %d", i),
					Category:   categories[i%len(categories)],
					OrderCount: i % 7,
					ViewCount:  i % 40,
					CreatedAt:  now.Add(-time.Duration(i) * time.Hour),
				}
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ranked := Rank(products, "sample product", now)
				_ = ranked
			}
		})
	}
}
