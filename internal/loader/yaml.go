package loader

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/atharv3903/logiroute/internal/graph"
	"github.com/atharv3903/logiroute/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed network.yaml
var defaultNetwork []byte

// Document is the YAML graph format. Edges lists undirected edges once.
// Graph is the adjacency form, where both directions must be spelled out.
// Either or both may be used.
type Document struct {
	Nodes []string                      `yaml:"nodes,omitempty"`
	Edges []model.Edge                  `yaml:"edges,omitempty"`
	Graph map[string]map[string]float64 `yaml:"graph,omitempty"`
}

// Default returns the built-in reference network.
func Default() (*graph.Store, error) {
	return ParseYAML(defaultNetwork)
}

func ReadYAMLFile(path string) (*graph.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func ParseYAML(data []byte) (*graph.Store, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse graph yaml: %w", err)
	}

	b := graph.NewBuilder()
	for _, n := range doc.Nodes {
		b.AddNode(n)
	}
	b.AddEdges(doc.Edges)
	for from, nb := range doc.Graph {
		b.AddNode(from)
		for to, w := range nb {
			b.AddArc(from, to, w)
		}
	}
	return b.Build()
}

// WriteYAML writes g in the edge-list form, listing isolated nodes separately.
func WriteYAML(w io.Writer, g *graph.Store) error {
	doc := Document{Edges: g.Edges()}
	for _, id := range g.SortedNodes() {
		nb, err := g.Neighbors(id)
		if err != nil {
			return err
		}
		if len(nb) == 0 {
			doc.Nodes = append(doc.Nodes, id)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
