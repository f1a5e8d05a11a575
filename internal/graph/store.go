// Package graph holds the static weighted network the routing engine searches.
//
// A Store is built once through a Builder and is read-only afterwards, so it can
// be shared by any number of concurrent queries without locking.
package graph

import (
	"sort"

	"github.com/atharv3903/logiroute/internal/model"
)

// Adjacency maps a neighbor identifier to the weight of the connecting edge.
type Adjacency map[string]float64

type Store struct {
	adj map[string]Adjacency
}

func (s *Store) NodeExists(id string) bool {
	_, ok := s.adj[id]
	return ok
}

// ListNodes returns every node in map order. Callers that need a stable
// order sort it themselves, or use SortedNodes.
func (s *Store) ListNodes() []string {
	nodes := make([]string, 0, len(s.adj))
	for id := range s.adj {
		nodes = append(nodes, id)
	}
	return nodes
}

func (s *Store) SortedNodes() []string {
	nodes := s.ListNodes()
	sort.Strings(nodes)
	return nodes
}

func (s *Store) NodeCount() int {
	return len(s.adj)
}

// EdgeCount is the sum of all adjacency sizes. Every undirected edge is stored
// in both directions, so this is twice the number of undirected edges.
func (s *Store) EdgeCount() int {
	n := 0
	for _, nb := range s.adj {
		n += len(nb)
	}
	return n
}

// Neighbors returns the adjacency of id. The returned map is shared with the
// store and must not be modified.
func (s *Store) Neighbors(id string) (Adjacency, error) {
	nb, ok := s.adj[id]
	if !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	return nb, nil
}

// Edges lists each undirected edge once, with From < To, sorted.
func (s *Store) Edges() []model.Edge {
	edges := make([]model.Edge, 0, s.EdgeCount()/2)
	for from, nb := range s.adj {
		for to, w := range nb {
			if from < to {
				edges = append(edges, model.Edge{From: from, To: to, Weight: w})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
