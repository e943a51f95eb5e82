package render

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/layout"
	"github.com/matzehuels/afgraph/pkg/observability"
)

// Drawing defaults.
const (
	DefaultWidth      = 800.0
	DefaultHeight     = 480.0
	DefaultNodeRadius = 18.0
	DefaultSeed       = -0.2 // Curvature of the first arc of every edge
	DefaultStep       = 0.2  // Growth of |curvature| per pair of arcs
	DefaultArrowWidth = 2.0
	DefaultArrowHead  = 10.0
)

// NodeFill is the uniform node color.
var NodeFill = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xcc} // skyblue, alpha 0.8

// Frame is the drawing area handed to [Surface.Begin].
type Frame struct {
	Width  float64
	Height float64
}

// NodeGlyph is one drawn node.
type NodeGlyph struct {
	ID     string
	Name   string
	Center layout.Point
	Radius float64
	Fill   color.RGBA
}

// Arc is one drawn arrow: a cubic Bézier from Start to End with the
// arrowhead at End.
type Arc struct {
	Source    string
	Target    string
	Label     string // Elementary label
	Index     int    // Position of the label within the composite label
	Color     color.RGBA
	Curvature float64
	Loop      bool

	Start, C1, C2, End layout.Point

	Width    float64 // Stroke width
	HeadSize float64 // Arrowhead length
}

// Surface receives drawing calls. Begin is called once before any node,
// then every node, then every arc, then End.
type Surface interface {
	Begin(f Frame) error
	DrawNode(n NodeGlyph) error
	DrawArc(a Arc) error
	End() error
}

// Stats summarizes a render.
type Stats struct {
	Nodes int
	Arcs  int
}

// Renderer draws graphs onto surfaces. It holds no state between renders
// and may be shared.
type Renderer struct {
	layouter   layout.Layouter
	layoutName string
	width      float64
	height     float64
	radius     float64
	seed       float64
	step       float64
	arrowWidth float64
	arrowHead  float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLayouter sets the node placement. name labels it in metrics.
func WithLayouter(name string, l layout.Layouter) Option {
	return func(r *Renderer) {
		if l != nil {
			r.layouter, r.layoutName = l, name
		}
	}
}

// WithSize sets the frame size.
func WithSize(width, height float64) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithNodeRadius sets the uniform node radius.
func WithNodeRadius(radius float64) Option {
	return func(r *Renderer) {
		if radius > 0 {
			r.radius = radius
		}
	}
}

// WithCurvature sets the seed and step of the fan-out sequence.
func WithCurvature(seed, step float64) Option {
	return func(r *Renderer) { r.seed, r.step = seed, step }
}

// WithArrow sets the arrow stroke width and arrowhead size.
func WithArrow(width, head float64) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.arrowWidth = width
		}
		if head > 0 {
			r.arrowHead = head
		}
	}
}

// New creates a Renderer. Without options it uses the Eades layouter and the
// package defaults.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		layouter:   layout.NewEades(),
		layoutName: layout.NameEades,
		width:      DefaultWidth,
		height:     DefaultHeight,
		radius:     DefaultNodeRadius,
		seed:       DefaultSeed,
		step:       DefaultStep,
		arrowWidth: DefaultArrowWidth,
		arrowHead:  DefaultArrowHead,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frame returns the frame the renderer draws into.
func (r *Renderer) Frame() Frame { return Frame{Width: r.width, Height: r.height} }

// Render lays out g and draws it onto s.
//
// Every label is split and resolved to a color before s receives its first
// call, so an *graph.EmptyLabelError or unknown color leaves s untouched.
// g is not modified.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, s Surface) (stats Stats, err error) {
	start := time.Now()
	defer func() {
		observability.Render().OnRenderComplete(ctx, stats.Nodes, stats.Arcs, time.Since(start), err)
	}()

	plans, err := planEdges(g.Edges())
	if err != nil {
		return Stats{}, err
	}

	nodes := g.Nodes()
	observability.Render().OnLayoutStart(ctx, r.layoutName, len(nodes))
	layoutStart := time.Now()
	pos, err := r.layouter.Layout(ctx, g)
	observability.Render().OnLayoutComplete(ctx, r.layoutName, time.Since(layoutStart), err)
	if err != nil {
		return Stats{}, fmt.Errorf("layout: %w", err)
	}
	pos = r.fit(pos)

	if err := s.Begin(r.Frame()); err != nil {
		return Stats{}, err
	}
	for _, n := range nodes {
		glyph := NodeGlyph{
			ID:     n.ID,
			Name:   n.DisplayName(),
			Center: pos[n.ID],
			Radius: r.radius,
			Fill:   NodeFill,
		}
		if err := s.DrawNode(glyph); err != nil {
			return stats, err
		}
		stats.Nodes++
	}

	for _, p := range plans {
		from, to := pos[p.edge.Source], pos[p.edge.Target]
		curv := Curvatures(len(p.labels), r.seed, r.step)
		for i, label := range p.labels {
			a := Arc{
				Source:    p.edge.Source,
				Target:    p.edge.Target,
				Label:     label,
				Index:     i,
				Color:     p.colors[i],
				Curvature: curv[i],
				Loop:      p.edge.IsLoop(),
				Width:     r.arrowWidth,
				HeadSize:  r.arrowHead,
			}
			if a.Loop {
				a.Start, a.C1, a.C2, a.End = loopPath(from, r.radius, curv[i])
			} else {
				a.Start, a.C1, a.C2, a.End = arcPath(from, to, r.radius, curv[i])
			}
			if err := s.DrawArc(a); err != nil {
				return stats, err
			}
			stats.Arcs++
		}
	}

	return stats, s.End()
}

type edgePlan struct {
	edge   graph.Edge
	labels []string
	colors []color.RGBA
}

func planEdges(edges []graph.Edge) ([]edgePlan, error) {
	plans := make([]edgePlan, 0, len(edges))
	for _, e := range edges {
		labels, err := e.Labels()
		if err != nil {
			return nil, err
		}
		colors := make([]color.RGBA, len(labels))
		for i, l := range labels {
			c, err := graph.ParseColor(l)
			if err != nil {
				return nil, fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
			}
			colors[i] = c
		}
		plans = append(plans, edgePlan{edge: e, labels: labels, colors: colors})
	}
	return plans, nil
}

// fit scales positions into the frame, keeping a margin for node glyphs and
// loops. A degenerate axis is centered.
func (r *Renderer) fit(pos layout.Positions) layout.Positions {
	margin := 3 * r.radius
	lo, hi := pos.Bounds()
	out := make(layout.Positions, len(pos))
	for id, p := range pos {
		out[id] = layout.Point{
			X: scaleAxis(p.X, lo.X, hi.X, margin, r.width-margin),
			Y: scaleAxis(p.Y, lo.Y, hi.Y, margin, r.height-margin),
		}
	}
	return out
}

func scaleAxis(v, lo, hi, from, to float64) float64 {
	if hi-lo < 1e-9 || to <= from {
		return (from + to) / 2
	}
	return from + (v-lo)/(hi-lo)*(to-from)
}
