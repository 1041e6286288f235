package stem

import "strings"

// Stem returns the stemmed form of word, computed directly with no
// memoization. Use this for one-off lookups (query parsing, tests); for the
// hot path — the ~100k lookups per document that indexing performs — use a
// *Cache instead, one per goroutine.
func Stem(word string) string {
	if IsAtomicPhrase(word) {
		return word
	}
	return computeStem(strings.ToLower(word))
}

// Cache is a memoizing stem cache. It is not safe for concurrent use: the
// index builder is single-threaded and creates its own Cache for each
// document it adds, so there is never a need for a shared, lock-guarded map
// that would otherwise serialize every stem lookup across goroutines.
type Cache struct {
	entries map[string]string
}

// NewCache returns a fresh, empty stem cache intended to be owned by exactly
// one goroutine for its lifetime.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Stem returns the memoized stem of word, computing and storing it on first
// use.
func (c *Cache) Stem(word string) string {
	if IsAtomicPhrase(word) {
		return word
	}
	lower := strings.ToLower(word)
	if s, ok := c.entries[lower]; ok {
		return s
	}
	s := computeStem(lower)
	c.entries[lower] = s
	return s
}
