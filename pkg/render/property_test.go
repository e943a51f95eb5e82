package render

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/afgraph/pkg/graph"
)

var palette = []string{"red", "green", "blue", "black"}

// TestRenderProperties checks arc and node counts over random multigraphs.
func TestRenderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	r := newTestRenderer()

	properties.Property("one glyph per node and one arc per elementary label", prop.ForAll(
		func(n int, specs []int) bool {
			g := graph.New()
			ids := make([]string, n)
			for i := range ids {
				ids[i] = string(rune('a' + i))
				if err := g.AddNode(graph.Node{ID: ids[i]}); err != nil {
					return false
				}
			}

			want := make(map[[2]string]int)
			for _, v := range specs {
				src, dst := ids[v%n], ids[(v/10)%n]
				count := 1 + (v/100)%len(palette)
				if err := g.SetEdge(src, dst, graph.JoinLabels(palette[:count]...)); err != nil {
					return false
				}
				want[[2]string{src, dst}] = count
			}
			arcs := 0
			for _, c := range want {
				arcs += c
			}

			var rec Recorder
			stats, err := r.Render(context.Background(), g, &rec)
			if err != nil {
				return false
			}
			return stats.Nodes == n && len(rec.Nodes) == n &&
				stats.Arcs == arcs && len(rec.Arcs) == arcs
		},
		gen.IntRange(1, 8),
		gen.SliceOf(gen.IntRange(0, 999)),
	))

	properties.Property("curvatures alternate in sign and grow every second arc", prop.ForAll(
		func(n int) bool {
			c := Curvatures(n, DefaultSeed, DefaultStep)
			for i := range c {
				want := DefaultStep * float64(i/2+1)
				if i%2 == 0 {
					want = -want
				}
				if math.Abs(c[i]-want) > 1e-9 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 32),
	))

	properties.TestingRun(t)
}
