package layout

import (
	"context"
	"math/rand/v2"
	"slices"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	gonumlayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/afgraph/pkg/graph"
)

// Eades is a force-directed spring embedder. Edge direction and multiplicity
// are ignored for placement; self-loops do not exert a force.
type Eades struct {
	Updates   int     // Number of optimizer iterations
	Repulsion float64 // Global repulsion strength
	Rate      float64 // Gradient descent rate
	Theta     float64 // Barnes-Hut approximation constant

	// Seed fixes the initial placement. Zero draws a random placement on
	// every call.
	Seed uint64
}

// NewEades returns an Eades layouter with the usual gonum parameters.
func NewEades() *Eades {
	return &Eades{Updates: 30, Repulsion: 1, Rate: 0.05, Theta: 0.2}
}

// Layout runs the spring embedder to completion or until ctx is done.
func (e *Eades) Layout(ctx context.Context, g *graph.Graph) (Positions, error) {
	nodes := g.Nodes()
	pos := make(Positions, len(nodes))
	switch len(nodes) {
	case 0:
		return pos, nil
	case 1:
		pos[nodes[0].ID] = Point{}
		return pos, nil
	}

	ids := make(map[string]int64, len(nodes))
	ug := simple.NewUndirectedGraph()
	for i, n := range nodes {
		ids[n.ID] = int64(i)
		ug.AddNode(simple.Node(i))
	}
	for _, edge := range g.Edges() {
		if edge.IsLoop() {
			continue
		}
		u, v := ids[edge.Source], ids[edge.Target]
		if ug.HasEdgeBetween(u, v) {
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(u), simple.Node(v)))
	}

	eades := gonumlayout.EadesR2{
		Updates:   e.Updates,
		Repulsion: e.Repulsion,
		Rate:      e.Rate,
		Theta:     e.Theta,
	}
	if e.Seed != 0 {
		eades.Src = rand.NewPCG(e.Seed, e.Seed)
	}

	opt := gonumlayout.NewOptimizerR2(orderedGraph{ug}, eades.Update)
	for opt.Update() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	for _, n := range nodes {
		c := opt.Coord2(ids[n.ID])
		pos[n.ID] = Point{X: c.X, Y: c.Y}
	}
	return pos, nil
}

// orderedGraph iterates nodes and neighbors by ID so a seeded placement
// assigns the same start point to the same node on every run.
type orderedGraph struct {
	*simple.UndirectedGraph
}

func (g orderedGraph) Nodes() gonumgraph.Nodes {
	return sortedNodes(g.UndirectedGraph.Nodes())
}

func (g orderedGraph) From(id int64) gonumgraph.Nodes {
	return sortedNodes(g.UndirectedGraph.From(id))
}

func sortedNodes(it gonumgraph.Nodes) gonumgraph.Nodes {
	nodes := gonumgraph.NodesOf(it)
	slices.SortFunc(nodes, func(a, b gonumgraph.Node) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return iterator.NewOrderedNodes(nodes)
}
