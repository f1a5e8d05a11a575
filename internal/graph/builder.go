package graph

import (
	"fmt"
	"math"

	"github.com/atharv3903/logiroute/internal/model"
)

// Builder accumulates nodes and edges and checks the graph contract before
// producing a Store: positive finite weights, no self loops, symmetric
// adjacency and no dangling neighbors.
type Builder struct {
	adj  map[string]Adjacency
	errs []error
}

func NewBuilder() *Builder {
	return &Builder{adj: make(map[string]Adjacency)}
}

func (b *Builder) AddNode(id string) *Builder {
	if id == "" {
		b.errs = append(b.errs, ErrEmptyNodeID)
		return b
	}
	if _, ok := b.adj[id]; !ok {
		b.adj[id] = make(Adjacency)
	}
	return b
}

// AddEdge records an undirected edge in both directions. A repeated edge
// keeps the last weight.
func (b *Builder) AddEdge(from, to string, weight float64) *Builder {
	if err := checkEdge(from, to, weight); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.AddNode(from).AddNode(to)
	b.adj[from][to] = weight
	b.adj[to][from] = weight
	return b
}

// AddArc records a single direction. Sources that store both directions as
// separate rows use it; Build rejects the result unless every arc has its
// mirror.
func (b *Builder) AddArc(from, to string, weight float64) *Builder {
	if err := checkEdge(from, to, weight); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.AddNode(from)
	b.adj[from][to] = weight
	return b
}

func (b *Builder) AddEdges(edges []model.Edge) *Builder {
	for _, e := range edges {
		b.AddEdge(e.From, e.To, e.Weight)
	}
	return b
}

func (b *Builder) Build() (*Store, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	for from, nb := range b.adj {
		for to, w := range nb {
			back, ok := b.adj[to]
			if !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrDanglingNeighbor, from, to)
			}
			if bw, ok := back[from]; !ok || bw != w {
				return nil, fmt.Errorf("%w: %s -> %s", ErrAsymmetricEdge, from, to)
			}
		}
	}

	adj := b.adj
	b.adj = make(map[string]Adjacency)
	return &Store{adj: adj}, nil
}

func checkEdge(from, to string, weight float64) error {
	if from == "" || to == "" {
		return ErrEmptyNodeID
	}
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfLoop, from)
	}
	if !(weight > 0) || math.IsInf(weight, 1) {
		return fmt.Errorf("%w: %s -> %s weight=%v", ErrNonPositiveWeight, from, to, weight)
	}
	return nil
}
