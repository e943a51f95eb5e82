package sink

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/afgraph/pkg/fonts"
	"github.com/matzehuels/afgraph/pkg/render"
)

// PNGOption configures a PNG surface.
type PNGOption func(*PNG)

// WithScale sets the pixel density (default 2.0 for 2x resolution).
func WithScale(scale float64) PNGOption {
	return func(p *PNG) {
		if scale > 0 {
			p.scale = scale
		}
	}
}

// WithPNGBackground sets the background color (default white).
func WithPNGBackground(c color.Color) PNGOption { return func(p *PNG) { p.background = c } }

// PNG is a render.Surface producing a PNG image.
type PNG struct {
	scale      float64
	background color.Color

	dc    *gg.Context
	nodes []render.NodeGlyph
	out   []byte
}

// NewPNG creates a PNG surface.
func NewPNG(opts ...PNGOption) *PNG {
	p := &PNG{scale: 2.0, background: color.White}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Begin implements render.Surface.
func (p *PNG) Begin(f render.Frame) error {
	w, h := int(f.Width*p.scale+0.5), int(f.Height*p.scale+0.5)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid frame %.0fx%.0f", f.Width, f.Height)
	}
	p.dc = gg.NewContext(w, h)
	p.dc.Scale(p.scale, p.scale)
	p.dc.SetColor(p.background)
	p.dc.Clear()
	p.nodes = p.nodes[:0]
	p.out = nil
	return nil
}

// DrawNode implements render.Surface. Labels are drawn in End so arcs do not
// cover them.
func (p *PNG) DrawNode(n render.NodeGlyph) error {
	p.dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
	p.dc.SetColor(n.Fill)
	p.dc.Fill()
	p.nodes = append(p.nodes, n)
	return nil
}

// DrawArc implements render.Surface.
func (p *PNG) DrawArc(a render.Arc) error {
	dc := p.dc
	dc.SetColor(a.Color)
	dc.SetLineWidth(a.Width)
	dc.MoveTo(a.Start.X, a.Start.Y)
	dc.CubicTo(a.C1.X, a.C1.Y, a.C2.X, a.C2.Y, a.End.X, a.End.Y)
	dc.Stroke()

	tip, left, right := render.ArrowHead(a)
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.Fill()
	return nil
}

// End implements render.Surface. It draws the node labels and encodes the
// image.
func (p *PNG) End() error {
	bold, err := fonts.BoldFace(14)
	if err != nil {
		return err
	}
	defer bold.Close()
	regular, err := fonts.RegularFace(10)
	if err != nil {
		return err
	}
	defer regular.Close()

	dc := p.dc
	for _, n := range p.nodes {
		dc.SetColor(color.Black)
		dc.SetFontFace(bold)
		dc.DrawStringAnchored(n.Name, n.Center.X, n.Center.Y, 0.5, 0.35)
		dc.SetColor(color.Gray{Y: 0x55})
		dc.SetFontFace(regular)
		dc.DrawStringAnchored(n.ID, n.Center.X, n.Center.Y+n.Radius+4, 0.5, 1)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	p.out = buf.Bytes()
	return nil
}

// Bytes returns the image encoded by the last End.
func (p *PNG) Bytes() []byte { return p.out }
