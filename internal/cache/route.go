package cache

import (
	"container/list"
	"sync"

	"github.com/atharv3903/logiroute/internal/algo"
	"github.com/atharv3903/logiroute/internal/model"
)

// DefaultRouteCapacity is the number of routes kept when no size is configured.
const DefaultRouteCapacity = 2048

type RouteKey struct{ Start, End string }

type routeEntry struct {
	key RouteKey
	val algo.Route
}

// RouteCache is a bounded LRU of successful route results.
// It's safe for concurrent use. The graph is immutable, so entries never go stale.
type RouteCache struct {
	mu       sync.Mutex
	m        map[RouteKey]*list.Element
	ll       *list.List
	capacity int
	// stats
	puts      int
	gets      int
	hits      int
	evictions int
}

func NewRouteCache() *RouteCache {
	return NewRouteCacheWithCap(DefaultRouteCapacity)
}

// NewRouteCacheWithCap returns an LRU with the given capacity.
// A capacity <= 0 falls back to DefaultRouteCapacity.
func NewRouteCacheWithCap(capacity int) *RouteCache {
	if capacity <= 0 {
		capacity = DefaultRouteCapacity
	}
	return &RouteCache{
		m:        make(map[RouteKey]*list.Element, capacity),
		ll:       list.New(),
		capacity: capacity,
	}
}

// Get returns the cached route and moves it to the front on a hit.
func (c *RouteCache) Get(key RouteKey) (algo.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if el, ok := c.m[key]; ok {
		c.hits++
		c.ll.MoveToFront(el)
		return clone(el.Value.(routeEntry).val), true
	}
	return algo.Route{}, false
}

// Put inserts or replaces a route, evicting the least recently used entry
// when over capacity.
func (c *RouteCache) Put(key RouteKey, r algo.Route) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r = clone(r)
	c.puts++
	if el, ok := c.m[key]; ok {
		el.Value = routeEntry{key: key, val: r}
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(routeEntry{key: key, val: r})
	c.m[key] = el

	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		if tail != nil {
			re := tail.Value.(routeEntry)
			delete(c.m, re.key)
			c.ll.Remove(tail)
			c.evictions++
		}
	}
}

func (c *RouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Clear drops every entry and resets the stats.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[RouteKey]*list.Element, c.capacity)
	c.ll.Init()
	c.puts = 0
	c.gets = 0
	c.hits = 0
	c.evictions = 0
}

func (c *RouteCache) Stats() model.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CacheStats{
		Gets:      c.gets,
		Hits:      c.hits,
		Puts:      c.puts,
		Evictions: c.evictions,
		Size:      c.ll.Len(),
	}
}

// callers get their own copy of the path slice
func clone(r algo.Route) algo.Route {
	r.Path = append([]string(nil), r.Path...)
	return r
}
