package view

import (
	"sort"

	"github.com/dshills/glyphclick/internal/text"
)

// CacheStats reports line identity cache counters.
type CacheStats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// cachedIdentity is one line cache entry.
type cachedIdentity struct {
	identity *LineIdentity
	hash     uint64
	start    int
	lastPass uint64
}

// lineCache keeps identities stable for unchanged lines near the viewport.
// Callers serialize access.
type lineCache struct {
	max     int
	serial  uint64
	entries map[int]*cachedIdentity

	hits      uint64
	misses    uint64
	evictions uint64
}

func newLineCache(max int) *lineCache {
	if max <= 0 {
		max = 500
	}
	return &lineCache{
		max:     max,
		entries: make(map[int]*cachedIdentity),
	}
}

// identity returns the cached identity for a line if its content and start
// are unchanged, otherwise a fresh one.
func (c *lineCache) identity(source *text.Buffer, line, start int, content string, pass uint64) *LineIdentity {
	hash := hashContent(content)
	if entry, ok := c.entries[line]; ok && entry.hash == hash && entry.start == start {
		entry.lastPass = pass
		c.hits++
		return entry.identity
	}

	c.misses++
	c.serial++
	id := &LineIdentity{source: source, line: line, serial: c.serial}
	c.entries[line] = &cachedIdentity{
		identity: id,
		hash:     hash,
		start:    start,
		lastPass: pass,
	}
	return id
}

// retain evicts every entry outside [lo, hi) and then, if the cache is still
// over capacity, the least recently used entries.
func (c *lineCache) retain(lo, hi int) {
	for line := range c.entries {
		if line < lo || line >= hi {
			delete(c.entries, line)
			c.evictions++
		}
	}

	excess := len(c.entries) - c.max
	if excess <= 0 {
		return
	}

	lines := make([]int, 0, len(c.entries))
	for line := range c.entries {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return c.entries[lines[i]].lastPass < c.entries[lines[j]].lastPass
	})
	for _, line := range lines[:excess] {
		delete(c.entries, line)
		c.evictions++
	}
}

// clear drops every entry.
func (c *lineCache) clear() {
	c.evictions += uint64(len(c.entries))
	c.entries = make(map[int]*cachedIdentity)
}

func (c *lineCache) stats() CacheStats {
	return CacheStats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// hashContent returns the FNV-1a hash of s.
func hashContent(s string) uint64 {
	var hash uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= 1099511628211
	}
	return hash
}
