package palette

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

type cacheKey struct {
	granularity model.Granularity
	key         string
}

// ColorCache hands out one random color per grouping key. Keys are scoped to the
// granularity they were derived under, and the whole cache is dropped whenever a
// call arrives with a different granularity than the previous one.
type ColorCache struct {
	mu      sync.Mutex
	rng     *rand.Rand
	current model.Granularity
	colors  map[cacheKey]string
}

// NewColorCache creates a cache seeded from the clock.
func NewColorCache() *ColorCache {
	return NewColorCacheWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewColorCacheWithSource creates a cache drawing colors from src.
func NewColorCacheWithSource(src rand.Source) *ColorCache {
	return &ColorCache{
		rng:    rand.New(src),
		colors: make(map[cacheKey]string),
	}
}

// GroupingKey derives the color key for label: the year-month for day labels,
// the year for month and year labels.
func GroupingKey(label string, g model.Granularity) string {
	n := 4
	if g == model.GranularityDay {
		n = 7
	}
	if len(label) < n {
		return label
	}
	return label[:n]
}

// ColorFor returns the cached color for label's grouping key, creating one on first use.
func (c *ColorCache) ColorFor(label string, g model.Granularity) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g != c.current {
		c.resetLocked()
		c.current = g
	}

	k := cacheKey{granularity: g, key: GroupingKey(label, g)}
	if color, ok := c.colors[k]; ok {
		return color
	}

	color := fmt.Sprintf("#%06X", c.rng.Intn(1<<24))
	c.colors[k] = color
	return color
}

// Reset forgets every assigned color.
func (c *ColorCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *ColorCache) resetLocked() {
	c.colors = make(map[cacheKey]string)
}

// Len returns the number of cached keys.
func (c *ColorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.colors)
}
