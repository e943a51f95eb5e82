package layout

import (
	"context"
	"math"

	"github.com/matzehuels/afgraph/pkg/graph"
)

// Circle places nodes evenly on the unit circle in insertion order, starting
// at the top and going clockwise.
type Circle struct{}

// Layout implements [Layouter].
func (Circle) Layout(_ context.Context, g *graph.Graph) (Positions, error) {
	nodes := g.Nodes()
	pos := make(Positions, len(nodes))
	if len(nodes) == 1 {
		pos[nodes[0].ID] = Point{}
		return pos, nil
	}
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		a := float64(i)*step - math.Pi/2
		pos[n.ID] = Point{X: math.Cos(a), Y: math.Sin(a)}
	}
	return pos, nil
}
