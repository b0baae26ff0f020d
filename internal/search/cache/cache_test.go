package cache

import "testing"

func TestBuildKeyNormalization(t *testing.T) {
	c := &QueryCache{}

	base := c.buildKey("red shirt", 25)
	cases := []struct {
		name  string
		query string
		limit int
		same  bool
	}{
		{"identical", "red shirt", 25, true},
		{"case_insensitive", "RED SHIRT", 25, true},
		{"whitespace_collapsed", "  red   shirt  ", 25, true},
		{"word_order_significant", "shirt red", 25, false},
		{"limit_in_key", "red shirt", 10, false},
		{"different_query", "blue shirt", 25, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := c.buildKey(tc.query, tc.limit)
			if (key == base) != tc.same {
				t.Errorf("buildKey(%q, %d) == base is %v, want %v", tc.query, tc.limit, key == base, tc.same)
			}
		})
	}
}

func TestBuildKeyPrefix(t *testing.T) {
	c := &QueryCache{}
	key := c.buildKey("phone", 25)
	if len(key) <= len(keyPrefix) || key[:len(keyPrefix)] != keyPrefix {
		t.Errorf("key %q missing %q prefix", key, keyPrefix)
	}
}
