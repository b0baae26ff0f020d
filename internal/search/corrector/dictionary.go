package corrector

import (
	"strings"

	"github.com/TimothyBayode/lautechmarket-search/internal/catalog"
)

// BuildDictionary assembles the known-good term set for spelling correction:
// words from product names, category labels, vendor display and business
// names, and the curated category list. Terms are lowercased and
// deduplicated; the dictionary is rebuilt per catalog refresh, never
// persisted.
func BuildDictionary(products []catalog.Product, vendors []catalog.Vendor, categories []string) []string {
	seen := make(map[string]struct{})
	dict := make([]string, 0, len(products)*2)

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if len(term) < minWordLen {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		dict = append(dict, term)
	}
	addWords := func(text string) {
		for _, w := range strings.Fields(text) {
			add(w)
		}
	}

	for _, p := range products {
		addWords(p.Name)
		add(p.Category)
		addWords(p.Category)
	}
	for _, v := range vendors {
		addWords(v.DisplayName)
		addWords(v.BusinessName)
	}
	for _, label := range categories {
		add(label)
		addWords(label)
	}
	return dict
}
