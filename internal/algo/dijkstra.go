// Package algo is the routing engine: single-source Dijkstra over a graph.Store
// and path reconstruction.
//
// Edge weights must be non-negative. This is a precondition of the algorithm
// and is not checked here; graph.Builder refuses non-positive weights when the
// store is loaded.
package algo

import (
	"math"

	"github.com/atharv3903/logiroute/internal/graph"
)

// Graph is the read-only view of the store the engine needs.
type Graph interface {
	NodeExists(id string) bool
	Neighbors(id string) (graph.Adjacency, error)
	NodeCount() int
}

// Route is the answer to one query.
type Route struct {
	Path         []string
	Distance     float64
	NodesVisited int
}

func (r Route) Stops() int { return len(r.Path) }

// Engine holds no per-query state, so one Engine serves concurrent callers.
type Engine struct {
	g Graph
}

func NewEngine(g Graph) *Engine {
	return &Engine{g: g}
}

// CalculateRoute returns the lowest-weight path from start to end.
//
// Both endpoints are checked before any search work, start first. The search
// always exhausts the component reachable from start, so NodesVisited depends
// only on start.
func (e *Engine) CalculateRoute(start, end string) (Route, error) {
	if !e.g.NodeExists(start) {
		return Route{}, &graph.UnknownNodeError{ID: start, Role: graph.RoleStart}
	}
	if !e.g.NodeExists(end) {
		return Route{}, &graph.UnknownNodeError{ID: end, Role: graph.RoleEnd}
	}

	t := e.run(start)

	d, ok := t.dist[end]
	if !ok || math.IsInf(d, 1) {
		return Route{}, &NoRouteError{Start: start, End: end}
	}

	return Route{
		Path:         t.pathTo(end),
		Distance:     d,
		NodesVisited: t.visited,
	}, nil
}

// Tree is a finished single-source search. Nodes missing from Dist are
// unreachable.
type Tree struct {
	Source  string
	Dist    map[string]float64
	Prev    map[string]string
	Visited int
}

// ShortestPathTree runs the full search from start and returns the distance
// and predecessor maps.
func (e *Engine) ShortestPathTree(start string) (Tree, error) {
	if !e.g.NodeExists(start) {
		return Tree{}, &graph.UnknownNodeError{ID: start, Role: graph.RoleStart}
	}
	t := e.run(start)
	return Tree{Source: start, Dist: t.dist, Prev: t.prev, Visited: t.visited}, nil
}

type search struct {
	g       Graph
	dist    map[string]float64
	prev    map[string]string
	settled map[string]bool
	pq      pq
	visited int
}

// run performs lazy-deletion Dijkstra from start until the queue drains.
// Unset entries in dist are +Inf.
func (e *Engine) run(start string) *search {
	n := e.g.NodeCount()
	s := &search{
		g:       e.g,
		dist:    make(map[string]float64, n),
		prev:    make(map[string]string, n),
		settled: make(map[string]bool, n),
		pq:      make(pq, 0, n),
	}
	s.dist[start] = 0
	s.pq.push(start, 0)

	for s.pq.Len() > 0 {
		cur := s.pq.pop()
		if s.settled[cur.node] {
			continue
		}
		s.settled[cur.node] = true
		s.visited++
		s.relax(cur.node)
	}
	return s
}

func (s *search) relax(u string) {
	nb, err := s.g.Neighbors(u)
	if err != nil {
		// u came out of an adjacency list, so the store is corrupt.
		panic("algo: dangling neighbor " + u)
	}
	du := s.dist[u]
	for v, w := range nb {
		nd := du + w
		if old, ok := s.dist[v]; ok && nd >= old {
			continue
		}
		s.dist[v] = nd
		s.prev[v] = u
		s.pq.push(v, nd)
	}
}

func (s *search) pathTo(end string) []string {
	path := []string{}
	cur := end
	for {
		path = append(path, cur)
		p, ok := s.prev[cur]
		if !ok {
			break
		}
		cur = p
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
