package suggest

import (
	"math"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// ResultCache keeps recent per-query results with least-recently-used
// eviction. It is cleared whenever the dictionary or weights change.
type ResultCache struct {
	entries     map[string]any
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[string]any, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// cacheKey identifies a result by pipeline, query, and the flags that change it.
func cacheKey(kind, original string, opts QueryOptions) string {
	return kind + strconv.FormatBool(opts.UseKeyboard) + strconv.FormatBool(opts.ReturnInvalid) + ":" + original
}

func (rc *ResultCache) Get(key string) (any, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	v, ok := rc.entries[key]
	if !ok {
		rc.misses++
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	return v, true
}

func (rc *ResultCache) Put(key string, value any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, ok := rc.entries[key]; !ok && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = value
	rc.markAccessed(key)
}

// Clear drops every entry. Hit and miss counters are kept.
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	clear(rc.entries)
	clear(rc.accessTime)
}

func (rc *ResultCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries": len(rc.entries),
		"maxCache":     rc.maxEntries,
		"cacheHits":    int(rc.hits),
		"cacheMisses":  int(rc.misses),
	}
}

func (rc *ResultCache) markAccessed(key string) {
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, t := range rc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(rc.entries, oldestKey)
		delete(rc.accessTime, oldestKey)
		log.Debugf("Evicted '%s' from result cache", oldestKey)
	}
}
