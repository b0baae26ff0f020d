package scorer

import "strings"

// synonyms maps a canonical concept to the surface forms students actually
// type. A keyword hit on either the concept or one of its synonyms boosts
// products whose name or category carries the concept itself.
var synonyms = map[string][]string{
	"phone":     {"mobile", "smartphone", "cellphone", "cell", "android", "iphone"},
	"laptop":    {"notebook", "computer", "pc", "macbook"},
	"headphone": {"headset", "earphone", "earbud", "earpiece", "airpod"},
	"charger":   {"adapter", "powerbank", "cable"},
	"shoe":      {"sneaker", "footwear", "slipper", "sandal", "heel"},
	"bag":       {"backpack", "handbag", "purse", "satchel"},
	"dress":     {"gown", "outfit", "clothing", "wear"},
	"shirt":     {"top", "tee", "polo", "blouse"},
	"watch":     {"wristwatch", "timepiece"},
	"book":      {"textbook", "novel", "handout"},
	"food":      {"snack", "meal", "provision", "groceries"},
	"perfume":   {"fragrance", "cologne", "scent"},
}

// synonymRelevance adds the semantic boost: for each keyword that names a
// concept (directly or via a synonym) whose surface form appears in the
// product name or category, one boost is added. Hits accumulate across
// keywords and concepts; nothing is deduplicated, so a query stuffed with
// synonyms of the same concept earns the boost repeatedly. Known scoring
// anomaly, kept intentionally.
func synonymRelevance(keywords []string, name, category string) float64 {
	var boost float64
	for _, kw := range keywords {
		for concept, forms := range synonyms {
			if kw != concept && !containsWord(forms, kw) {
				continue
			}
			if strings.Contains(name, concept) || strings.Contains(category, concept) {
				boost += synonymBoost
			}
		}
	}
	return boost
}

func containsWord(words []string, w string) bool {
	for _, candidate := range words {
		if candidate == w {
			return true
		}
	}
	return false
}
