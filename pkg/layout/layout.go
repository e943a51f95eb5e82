// Package layout computes 2D node positions for sequence graphs.
//
// Positions are recomputed on every render and are not stable across calls
// unless the layouter is seeded. Three layouters are provided:
//
//   - [Eades]: force-directed spring embedder (gonum), the default
//   - [Graphviz]: Graphviz neato or fdp placement
//   - [Circle]: deterministic placement on a circle
//
// Use [ByName] to select one from configuration.
package layout

import (
	"context"
	"math"

	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/graph"
)

// Point is a position in layout space.
type Point struct {
	X, Y float64
}

// Positions maps node IDs to points.
type Positions map[string]Point

// Bounds returns the bounding box of all points. Both corners are the origin
// for an empty set.
func (p Positions) Bounds() (lo, hi Point) {
	first := true
	for _, pt := range p {
		if first {
			lo, hi = pt, pt
			first = false
			continue
		}
		lo.X, lo.Y = math.Min(lo.X, pt.X), math.Min(lo.Y, pt.Y)
		hi.X, hi.Y = math.Max(hi.X, pt.X), math.Max(hi.Y, pt.Y)
	}
	return lo, hi
}

// Layouter places the nodes of a graph.
type Layouter interface {
	Layout(ctx context.Context, g *graph.Graph) (Positions, error)
}

// Names of the built-in layouters, as accepted by [ByName].
const (
	NameEades  = "eades"
	NameNeato  = "neato"
	NameFDP    = "fdp"
	NameCircle = "circle"
)

// ByName returns the layouter registered under name. An empty name selects
// the Eades spring embedder.
func ByName(name string) (Layouter, error) {
	switch name {
	case "", NameEades:
		return NewEades(), nil
	case NameNeato, NameFDP:
		return &Graphviz{Engine: name}, nil
	case NameCircle:
		return Circle{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown layout %q (valid: eades, neato, fdp, circle)", name)
	}
}
