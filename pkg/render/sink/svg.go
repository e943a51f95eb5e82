package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/render"
)

// SVGOption configures an SVG surface.
type SVGOption func(*SVG)

// WithBackground fills the frame with a CSS color before drawing.
func WithBackground(c string) SVGOption { return func(s *SVG) { s.background = c } }

// WithFontFamily sets the font family of node labels.
func WithFontFamily(f string) SVGOption { return func(s *SVG) { s.font = f } }

// SVG is a render.Surface producing an SVG document.
type SVG struct {
	background string
	font       string

	frame   render.Frame
	markers map[string]float64 // hex color -> arrowhead size
	nodes   bytes.Buffer
	arcs    bytes.Buffer
	out     []byte
}

// NewSVG creates an SVG surface.
func NewSVG(opts ...SVGOption) *SVG {
	s := &SVG{font: "sans-serif"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin implements render.Surface.
func (s *SVG) Begin(f render.Frame) error {
	s.frame = f
	s.markers = make(map[string]float64)
	s.nodes.Reset()
	s.arcs.Reset()
	s.out = nil
	return nil
}

// DrawNode implements render.Surface.
func (s *SVG) DrawNode(n render.NodeGlyph) error {
	fmt.Fprintf(&s.nodes, `  <g class="node" id="node-%s">`+"\n", escape(n.ID))
	fmt.Fprintf(&s.nodes, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f"/>`+"\n",
		n.Center.X, n.Center.Y, n.Radius, graph.HexColor(n.Fill), float64(n.Fill.A)/255)
	fmt.Fprintf(&s.nodes, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="14" font-weight="bold">%s</text>`+"\n",
		n.Center.X, n.Center.Y, escape(s.font), escape(n.Name))
	fmt.Fprintf(&s.nodes, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="hanging" font-family="%s" font-size="10" fill="#555555">%s</text>`+"\n",
		n.Center.X, n.Center.Y+n.Radius+4, escape(s.font), escape(n.ID))
	s.nodes.WriteString("  </g>\n")
	return nil
}

// DrawArc implements render.Surface.
func (s *SVG) DrawArc(a render.Arc) error {
	hex := graph.HexColor(a.Color)
	s.markers[hex] = a.HeadSize
	fmt.Fprintf(&s.arcs,
		`  <path class="arc" data-source="%s" data-target="%s" data-label="%s" data-curvature="%.2f" d="M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f" fill="none" stroke="%s" stroke-width="%.2f" marker-end="url(#%s)"/>`+"\n",
		escape(a.Source), escape(a.Target), escape(a.Label), a.Curvature,
		a.Start.X, a.Start.Y, a.C1.X, a.C1.Y, a.C2.X, a.C2.Y, a.End.X, a.End.Y,
		hex, a.Width, markerID(hex))
	return nil
}

// End implements render.Surface. It assembles the document.
func (s *SVG) End() error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.frame.Width, s.frame.Height, s.frame.Width, s.frame.Height)

	if len(s.markers) > 0 {
		buf.WriteString("  <defs>\n")
		hexes := make([]string, 0, len(s.markers))
		for h := range s.markers {
			hexes = append(hexes, h)
		}
		slices.Sort(hexes)
		for _, h := range hexes {
			size := s.markers[h]
			fmt.Fprintf(&buf, `    <marker id="%s" viewBox="0 0 10 10" refX="10" refY="5" markerUnits="userSpaceOnUse" markerWidth="%.2f" markerHeight="%.2f" orient="auto"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
				markerID(h), size, size, h)
		}
		buf.WriteString("  </defs>\n")
	}
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(s.background))
	}

	buf.Write(s.nodes.Bytes())
	buf.Write(s.arcs.Bytes())
	buf.WriteString("</svg>\n")
	s.out = buf.Bytes()
	return nil
}

// Bytes returns the document assembled by the last End.
func (s *SVG) Bytes() []byte { return s.out }

func markerID(hex string) string { return "arrow-" + hex[1:] }

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
