package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/atharv3903/logiroute/internal/algo"
	"github.com/atharv3903/logiroute/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func route(path ...string) algo.Route {
	return algo.Route{Path: path, Distance: float64(len(path)), NodesVisited: len(path)}
}

func TestRouteCacheGetPut(t *testing.T) {
	c := NewRouteCacheWithCap(4)
	k := RouteKey{Start: "A", End: "C"}

	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Put(k, route("A", "B", "C"))
	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, route("A", "B", "C"), got)

	assert.Equal(t, model.CacheStats{Gets: 2, Hits: 1, Puts: 1, Size: 1}, c.Stats())
}

func TestRouteCacheKeyIsDirectional(t *testing.T) {
	c := NewRouteCacheWithCap(4)
	c.Put(RouteKey{"A", "B"}, route("A", "B"))
	_, ok := c.Get(RouteKey{"B", "A"})
	assert.False(t, ok)
}

func TestRouteCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewRouteCacheWithCap(2)
	a, b, d := RouteKey{"A", "A"}, RouteKey{"B", "B"}, RouteKey{"D", "D"}

	c.Put(a, route("A"))
	c.Put(b, route("B"))
	_, _ = c.Get(a) // a is now most recent
	c.Put(d, route("D"))

	_, ok := c.Get(b)
	assert.False(t, ok)
	_, ok = c.Get(a)
	assert.True(t, ok)
	_, ok = c.Get(d)
	assert.True(t, ok)
	assert.Equal(t, 1, c.Stats().Evictions)
	assert.Equal(t, 2, c.Len())
}

func TestRouteCacheReplace(t *testing.T) {
	c := NewRouteCacheWithCap(2)
	k := RouteKey{"A", "B"}
	c.Put(k, route("A", "B"))
	c.Put(k, route("A", "X", "B"))

	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "X", "B"}, got.Path)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Stats().Puts)
}

func TestRouteCacheReturnsCopies(t *testing.T) {
	c := NewRouteCacheWithCap(2)
	k := RouteKey{"A", "B"}
	r := route("A", "B")
	c.Put(k, r)
	r.Path[0] = "mutated"

	got, _ := c.Get(k)
	got.Path[1] = "mutated"

	again, _ := c.Get(k)
	assert.Equal(t, []string{"A", "B"}, again.Path)
}

func TestRouteCacheClear(t *testing.T) {
	c := NewRouteCache()
	c.Put(RouteKey{"A", "B"}, route("A", "B"))
	c.Clear()
	assert.Equal(t, model.CacheStats{}, c.Stats())
	_, ok := c.Get(RouteKey{"A", "B"})
	assert.False(t, ok)
}

func TestRouteCacheConcurrent(t *testing.T) {
	c := NewRouteCacheWithCap(16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				k := RouteKey{fmt.Sprint(i), fmt.Sprint(j % 32)}
				c.Put(k, route(k.Start, k.End))
				c.Get(k)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
	s := c.Stats()
	assert.Equal(t, 1600, s.Puts)
	assert.Equal(t, 1600, s.Gets)
}
