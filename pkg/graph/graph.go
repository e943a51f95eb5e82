package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.SetEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.SetEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a sequence vertex.
type Node struct {
	ID   string // Unique identifier
	Name string // Display name, drawn centered on the node
}

// DisplayName returns the name if set, otherwise the ID.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is the directed edge of an ordered node pair. Label is the composite
// label; use [SplitLabel] or [Edge.Labels] to obtain the elementary labels.
type Edge struct {
	Source string
	Target string
	Label  string
}

// Labels splits the composite label into elementary labels.
func (e Edge) Labels() ([]string, error) {
	labels, err := SplitLabel(e.Label)
	if err != nil {
		var el *EmptyLabelError
		if errors.As(err, &el) {
			el.Source, el.Target = e.Source, e.Target
		}
		return nil, err
	}
	return labels, nil
}

// IsLoop reports whether the edge starts and ends on the same node.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

type pair struct{ source, target string }

// Graph is a directed graph with one composite-labeled edge per ordered pair.
// Nodes and edges keep their insertion order.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// mutation.
type Graph struct {
	nodes     map[string]Node
	nodeOrder []string
	edges     map[pair]int
	edgeList  []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		edges: make(map[pair]int),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return nil
}

// SetEdge sets the composite label of the ordered pair (source, target),
// creating the edge if needed. Both nodes must exist.
func (g *Graph) SetEdge(source, target, label string) error {
	if _, ok := g.nodes[source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[target]; !ok {
		return ErrUnknownTargetNode
	}
	key := pair{source, target}
	if i, ok := g.edges[key]; ok {
		g.edgeList[i].Label = label
		return nil
	}
	g.edges[key] = len(g.edgeList)
	g.edgeList = append(g.edgeList, Edge{Source: source, Target: target, Label: label})
	return nil
}

// AddLabel appends an elementary label to the edge (source, target),
// creating the edge if needed.
func (g *Graph) AddLabel(source, target, label string) error {
	if e, ok := g.Edge(source, target); ok && e.Label != "" {
		return g.SetEdge(source, target, JoinLabels(e.Label, label))
	}
	return g.SetEdge(source, target, label)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge of the ordered pair (source, target).
func (g *Graph) Edge(source, target string) (Edge, bool) {
	i, ok := g.edges[pair{source, target}]
	if !ok {
		return Edge{}, false
	}
	return g.edgeList[i], true
}

// Nodes returns a copy of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edgeList) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of ordered pairs that carry an edge.
func (g *Graph) EdgeCount() int { return len(g.edgeList) }

// ArcCount returns the number of elementary labels over all edges, which is
// the number of arcs a renderer draws. It fails on the first edge whose
// composite label is empty.
func (g *Graph) ArcCount() (int, error) {
	n := 0
	for _, e := range g.edgeList {
		labels, err := e.Labels()
		if err != nil {
			return 0, err
		}
		n += len(labels)
	}
	return n, nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, n := range g.Nodes() {
		_ = c.AddNode(n)
	}
	for _, e := range g.edgeList {
		_ = c.SetEdge(e.Source, e.Target, e.Label)
	}
	return c
}
