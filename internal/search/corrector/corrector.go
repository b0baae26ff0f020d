// Package corrector suggests spelling corrections for search queries using
// Levenshtein distance against a dictionary of known catalog terms.
package corrector

import "strings"

// Words shorter than this are never corrected; one edit in a two-letter word
// changes it beyond recognition.
const minWordLen = 3

// maxDistance is exclusive: only candidates at distance 0 or 1 are accepted.
const maxDistance = 2

// Correct checks each whitespace-separated word of query against dict and
// replaces words that sit within one edit of a known term. It returns the
// rejoined query and true only if at least one word changed. Exact
// case-insensitive dictionary matches are kept as-is.
//
// The scan is a full pass over the dictionary per word with no early
// termination, so callers keep the dictionary to curated terms (names,
// categories, vendor names), not catalog-sized free text.
func Correct(query string, dict []string) (string, bool) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return "", false
	}

	corrected := make([]string, len(words))
	changed := false
	for i, word := range words {
		corrected[i] = word
		if len(word) < minWordLen {
			continue
		}
		lower := strings.ToLower(word)
		if replacement, ok := bestMatch(lower, dict); ok && replacement != lower {
			corrected[i] = replacement
			changed = true
		}
	}
	if !changed {
		return "", false
	}
	return strings.Join(corrected, " "), true
}

// bestMatch scans the whole dictionary for the entry with minimum edit
// distance from word. It reports a match only when the minimum is strictly
// below maxDistance. An exact match short-circuits to the word itself.
func bestMatch(word string, dict []string) (string, bool) {
	best := ""
	bestDist := maxDistance
	for _, entry := range dict {
		lower := strings.ToLower(entry)
		if lower == word {
			return word, true
		}
		if d := Distance(word, lower); d < bestDist {
			best = lower
			bestDist = d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Distance computes the Levenshtein edit distance between a and b using the
// standard dynamic-programming recurrence with unit insertion, deletion, and
// substitution costs. No early termination; O(len(a)*len(b)).
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
