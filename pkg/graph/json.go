package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the serialization format of a [Graph].
type Document struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// NodeDoc is a serialized node.
type NodeDoc struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

// EdgeDoc is a serialized edge.
type EdgeDoc struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Label  string `json:"label" bson:"label"`
}

// ToDocument converts a graph to its serialization format, preserving
// insertion order.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]NodeDoc, 0, g.NodeCount()),
		Edges: make([]EdgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeDoc{ID: n.ID, Name: n.Name})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{Source: e.Source, Target: e.Target, Label: e.Label})
	}
	return doc
}

// FromDocument builds a graph from its serialization format.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for _, n := range doc.Nodes {
		if err := g.AddNode(Node{ID: n.ID, Name: n.Name}); err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.SetEdge(e.Source, e.Target, e.Label); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// MarshalGraph converts a graph to JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.Marshal(ToDocument(g))
}

// UnmarshalGraph decodes JSON bytes into a graph.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// WriteGraph writes a graph as indented JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
