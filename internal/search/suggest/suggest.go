// Package suggest aggregates instant "as you type" suggestions: top-scored
// products, vendors whose names contain the query, matching category labels,
// and a spelling correction when one applies. Pure and synchronous; the
// caller debounces keystrokes and the HTTP layer caches responses briefly.
package suggest

import (
	"strings"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/corrector"
	"github.com/TimothyBayode/lautechmarket-search/internal/search/scorer"
)

// Limits caps each suggestion section.
type Limits struct {
	Products   int
	Vendors    int
	Categories int
}

// DefaultLimits matches the instant-search dropdown layout.
func DefaultLimits() Limits {
	return Limits{Products: 4, Vendors: 2, Categories: 3}
}

// ProductSuggestion is one product row in the dropdown.
type ProductSuggestion struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	InStock  bool    `json:"in_stock"`
	Score    float64 `json:"score"`
}

// VendorSuggestion is one vendor row in the dropdown.
type VendorSuggestion struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	BusinessName string `json:"business_name"`
	ActiveNow    bool   `json:"active_now"`
}

// Suggestions is the aggregated dropdown payload.
type Suggestions struct {
	Query          string              `json:"query"`
	Products       []ProductSuggestion `json:"products"`
	Vendors        []VendorSuggestion  `json:"vendors"`
	Categories     []string            `json:"categories"`
	CorrectedQuery string              `json:"corrected_query,omitempty"`
}

// For builds suggestions for a query over the supplied catalog slices.
// Vendors and categories keep their input order; products are ranked by
// score. An empty query yields an empty payload.
func For(query string, products []catalog.Product, vendors []catalog.Vendor, categories []string, limits Limits, now time.Time) Suggestions {
	out := Suggestions{
		Query:      query,
		Products:   []ProductSuggestion{},
		Vendors:    []VendorSuggestion{},
		Categories: []string{},
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return out
	}

	ranked := scorer.Rank(products, query, now)
	for _, s := range ranked {
		if len(out.Products) >= limits.Products {
			break
		}
		out.Products = append(out.Products, ProductSuggestion{
			ID:       s.Product.ID,
			Name:     s.Product.Name,
			Category: s.Product.Category,
			Price:    s.Product.Price,
			InStock:  s.Product.InStock,
			Score:    s.Score,
		})
	}

	for _, v := range vendors {
		if len(out.Vendors) >= limits.Vendors {
			break
		}
		if strings.Contains(strings.ToLower(v.DisplayName), needle) ||
			strings.Contains(strings.ToLower(v.BusinessName), needle) {
			out.Vendors = append(out.Vendors, VendorSuggestion{
				ID:           v.ID,
				DisplayName:  v.DisplayName,
				BusinessName: v.BusinessName,
				ActiveNow:    v.ActiveNow,
			})
		}
	}

	for _, label := range categories {
		if len(out.Categories) >= limits.Categories {
			break
		}
		if strings.Contains(strings.ToLower(label), needle) {
			out.Categories = append(out.Categories, label)
		}
	}

	dict := corrector.BuildDictionary(products, vendors, categories)
	if corrected, ok := corrector.Correct(query, dict); ok {
		out.CorrectedQuery = corrected
	}
	return out
}
