// Package scorer implements the multi-factor relevance scoring used for
// catalog ranking and instant suggestions. A product's score is the sum of a
// textual relevance component, a capped engagement component, and a freshness
// tier. Scoring is a pure function of the product, the query, and the clock.
package scorer

import (
	"sort"
	"strings"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
)

// Scoring weights. Relevance dominates; engagement is capped so a heavily
// ordered product cannot drown out textual matches.
const (
	fullNameMatch     = 300.0
	fullCategoryMatch = 150.0
	keywordNameWeight = 100.0
	keywordCatWeight  = 50.0
	keywordDescWeight = 20.0
	allTermsBonus     = 50.0
	synonymBoost      = 50.0

	engagementCap = 50.0

	freshnessNew      = 30.0 // created within 48h
	freshnessRecent   = 20.0 // created within 7 days
	freshnessUpdated  = 15.0 // updated within 24h
	freshnessBaseline = 5.0
)

// Scored pairs a product with its computed relevance score.
type Scored struct {
	Product catalog.Product `json:"product"`
	Score   float64         `json:"score"`
}

// Keywords normalizes a raw query: lowercased, trimmed, split on whitespace,
// single-character tokens dropped.
func Keywords(query string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			keywords = append(keywords, f)
		}
	}
	return keywords
}

// Score computes the relevance score for one product against a query.
// Returns 0 when the query yields no usable keywords. Scores are always
// non-negative.
func Score(p catalog.Product, query string, now time.Time) float64 {
	normalized := strings.ToLower(strings.TrimSpace(query))
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return 0
	}

	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	description := strings.ToLower(p.Description)

	var relevance float64
	if strings.Contains(name, normalized) {
		relevance += fullNameMatch
	}
	if strings.Contains(category, normalized) {
		relevance += fullCategoryMatch
	}

	kwCount := float64(len(keywords))
	allMatched := true
	for _, kw := range keywords {
		matched := false
		if strings.Contains(name, kw) {
			relevance += keywordNameWeight / kwCount
			matched = true
		}
		if strings.Contains(category, kw) {
			relevance += keywordCatWeight / kwCount
			matched = true
		}
		if strings.Contains(description, kw) {
			relevance += keywordDescWeight / kwCount
			matched = true
		}
		if !matched {
			allMatched = false
		}
	}
	if allMatched && len(keywords) > 1 {
		relevance += allTermsBonus
	}

	relevance += synonymRelevance(keywords, name, category)

	// No textual relevance means no result: engagement and freshness rank
	// matches, they never resurrect non-matches.
	if relevance == 0 {
		return 0
	}
	return relevance + engagement(p) + freshness(p, now)
}

// engagement converts raw counters into a capped score so popularity can
// nudge but never dominate the ranking.
func engagement(p catalog.Product) float64 {
	raw := float64(p.OrderCount*10 + p.CartCount*5 + p.ViewCount)
	if raw > engagementCap {
		return engagementCap
	}
	return raw
}

// freshness returns exactly one tier, checked newest-first. Zero-value
// timestamps are treated as ancient, so unparseable rows land on the
// baseline unless a recent UpdatedAt applies.
func freshness(p catalog.Product, now time.Time) float64 {
	age := now.Sub(p.CreatedAt)
	switch {
	case age < 48*time.Hour:
		return freshnessNew
	case age < 168*time.Hour:
		return freshnessRecent
	case !p.UpdatedAt.IsZero() && now.Sub(p.UpdatedAt) < 24*time.Hour:
		return freshnessUpdated
	default:
		return freshnessBaseline
	}
}

// Rank scores every product and returns those with positive scores in
// descending order; ties keep catalog iteration order. An empty or
// whitespace-only query returns the input unscored, order preserved.
func Rank(products []catalog.Product, query string, now time.Time) []Scored {
	if strings.TrimSpace(query) == "" {
		result := make([]Scored, len(products))
		for i, p := range products {
			result[i] = Scored{Product: p}
		}
		return result
	}

	result := make([]Scored, 0, len(products))
	for _, p := range products {
		s := Score(p, query, now)
		if s <= 0 {
			continue
		}
		result = append(result, Scored{Product: p, Score: s})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}
