// Package render draws sequence graphs with one curved arrow per elementary
// label.
//
// # Overview
//
// A [graph.Graph] has at most one edge per ordered node pair, but the edge's
// composite label ("red+green+blue") encodes several independent
// relationships. The [Renderer] draws each elementary label as its own arc
// between the same two nodes. Arcs of one edge fan out by curvature:
//
//	label 0: -0.2   label 1: +0.2   label 2: -0.4   label 3: +0.4 ...
//
// Each arc is colored with its elementary label ([graph.ParseColor]).
//
// # Surfaces
//
// The renderer computes geometry only. Drawing is delegated to a [Surface]:
//
//   - [sink]: SVG and PNG documents
//   - [Recorder]: keeps the drawn glyphs and arcs in memory
//
// A render that fails (for example on an empty label) fails before the
// surface receives any call.
//
//	r := render.New(render.WithSize(800, 480))
//	svg := sink.NewSVG()
//	stats, err := r.Render(ctx, g, svg)
//
// [sink]: github.com/matzehuels/afgraph/pkg/render/sink
package render
