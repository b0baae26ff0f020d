// Package recommend ranks catalog subsets for a buyer: a home-feed
// recommendation list driven by category affinity with the buyer's view
// history, and a similar-products list for product pages. Scoring is a
// single pass over the in-memory catalog; no collaborative filtering.
package recommend

import (
	"sort"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
)

const (
	categoryAffinityWeight = 50.0
	recentCreationBonus    = 20.0

	similarSameCategory = 50.0
	similarSameBucket   = 30.0
	similarPriceBand    = 20.0
	priceBandFraction   = 0.3
)

type scored struct {
	product catalog.Product
	score   float64
}

// Recommendations ranks up to max products for a buyer with the given view
// history. Products already in the history are excluded. The composite score
// is category affinity (how many history items share the candidate's
// category), raw engagement, and a bonus for products created in the last
// seven days.
func Recommendations(products []catalog.Product, historyIDs []string, now time.Time, max int) []catalog.Product {
	viewed := make(map[string]struct{}, len(historyIDs))
	categoryHits := make(map[string]int)
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range historyIDs {
		viewed[id] = struct{}{}
		if p, ok := byID[id]; ok && p.Category != "" {
			categoryHits[p.Category]++
		}
	}

	candidates := make([]scored, 0, len(products))
	for _, p := range products {
		if _, ok := viewed[p.ID]; ok {
			continue
		}
		s := categoryAffinityWeight * float64(categoryHits[p.Category])
		s += float64(p.ViewCount + p.OrderCount*10 + p.CartCount*5)
		if now.Sub(p.CreatedAt) < 7*24*time.Hour {
			s += recentCreationBonus
		}
		candidates = append(candidates, scored{product: p, score: s})
	}
	return top(candidates, max)
}

// PopularityFallback ranks the whole catalog by order count descending. Used
// when the view-history store is unreadable; no history exclusion applies.
func PopularityFallback(products []catalog.Product, max int) []catalog.Product {
	candidates := make([]scored, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, scored{product: p, score: float64(p.OrderCount)})
	}
	return top(candidates, max)
}

// SimilarProducts ranks up to max products resembling ref: same category,
// same merchandising bucket, or a price within 30% of ref's. Products with
// no similarity signal are excluded, as is ref itself.
func SimilarProducts(ref catalog.Product, products []catalog.Product, max int) []catalog.Product {
	candidates := make([]scored, 0, len(products))
	for _, p := range products {
		if p.ID == ref.ID {
			continue
		}
		var s float64
		if p.Category != "" && p.Category == ref.Category {
			s += similarSameCategory
		}
		if p.Bucket != "" && p.Bucket == ref.Bucket {
			s += similarSameBucket
		}
		if withinPriceBand(p.Price, ref.Price) {
			s += similarPriceBand
		}
		if s <= 0 {
			continue
		}
		candidates = append(candidates, scored{product: p, score: s})
	}
	return top(candidates, max)
}

func withinPriceBand(price, refPrice float64) bool {
	band := refPrice * priceBandFraction
	diff := price - refPrice
	if diff < 0 {
		diff = -diff
	}
	return diff <= band
}

// top sorts candidates by descending score, catalog order on ties, and
// returns the first max products.
func top(candidates []scored, max int) []catalog.Product {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]catalog.Product, len(candidates))
	for i, c := range candidates {
		out[i] = c.product
	}
	return out
}
