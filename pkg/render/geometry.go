package render

import (
	"math"

	"github.com/matzehuels/afgraph/pkg/layout"
)

// Curvatures returns the curvature of each of n arcs sharing one edge.
//
// The first arc uses seed. After each arc a negative curvature flips sign;
// a positive one grows by step and becomes negative. With seed -0.2 and step
// 0.2 the sequence is -0.2, 0.2, -0.4, 0.4, -0.6 ...
func Curvatures(n int, seed, step float64) []float64 {
	out := make([]float64, n)
	c := seed
	for i := range out {
		out[i] = c
		if c < 0 {
			c = -c
		} else {
			c = -(c + step)
		}
	}
	return out
}

// Control returns the control point of the quadratic arc from p to q with
// curvature f: the chord midpoint displaced by f times the chord length along
// the chord normal.
func Control(p, q layout.Point, f float64) layout.Point {
	dx, dy := q.X-p.X, q.Y-p.Y
	return layout.Point{
		X: (p.X+q.X)/2 + f*dy,
		Y: (p.Y+q.Y)/2 - f*dx,
	}
}

// arcPath returns the cubic form of the quadratic arc between two node
// centers, clipped to the node circles.
func arcPath(from, to layout.Point, radius, curvature float64) (start, c1, c2, end layout.Point) {
	ctrl := Control(from, to, curvature)
	start = toward(from, ctrl, radius)
	end = toward(to, ctrl, radius)
	c1 = lerp(start, ctrl, 2.0/3)
	c2 = lerp(end, ctrl, 2.0/3)
	return start, c1, c2, end
}

// loopPath returns a loop on the node at center. Negative curvatures hang
// the loop above the node, positive ones below; the loop grows with
// |curvature|.
func loopPath(center layout.Point, radius, curvature float64) (start, c1, c2, end layout.Point) {
	dir := -math.Pi / 2
	if curvature > 0 {
		dir = math.Pi / 2
	}
	reach := radius * (2 + 5*math.Abs(curvature))
	const spread = 0.5
	start = polar(center, radius, dir-spread)
	end = polar(center, radius, dir+spread)
	c1 = polar(center, reach, dir-2*spread)
	c2 = polar(center, reach, dir+2*spread)
	return start, c1, c2, end
}

// ArrowHead returns the tip and the two base corners of the arrowhead of a.
func ArrowHead(a Arc) (tip, left, right layout.Point) {
	dx, dy := a.End.X-a.C2.X, a.End.Y-a.C2.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy = a.End.X-a.Start.X, a.End.Y-a.Start.Y
		l = math.Hypot(dx, dy)
	}
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	ux, uy := dx/l, dy/l
	base := layout.Point{X: a.End.X - ux*a.HeadSize, Y: a.End.Y - uy*a.HeadSize}
	half := a.HeadSize / 2.5
	left = layout.Point{X: base.X - uy*half, Y: base.Y + ux*half}
	right = layout.Point{X: base.X + uy*half, Y: base.Y - ux*half}
	return a.End, left, right
}

func toward(p, q layout.Point, dist float64) layout.Point {
	dx, dy := q.X-p.X, q.Y-p.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return p
	}
	return layout.Point{X: p.X + dx/l*dist, Y: p.Y + dy/l*dist}
}

func lerp(p, q layout.Point, t float64) layout.Point {
	return layout.Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

func polar(c layout.Point, r, angle float64) layout.Point {
	return layout.Point{X: c.X + r*math.Cos(angle), Y: c.Y + r*math.Sin(angle)}
}
