package sink

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/render"
	"github.com/matzehuels/afgraph/pkg/render/dot"
)

// Output formats accepted by [Encode].
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// ValidateFormat reports an error for unsupported formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("invalid format: %s (must be one of svg, png, dot, json)", format)
	}
	return nil
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Encode draws g with r in the given format. svg and png go through the
// renderer; dot exports one DOT edge per elementary label; json is the
// graph document.
func Encode(ctx context.Context, r *render.Renderer, g *graph.Graph, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		s := NewSVG()
		if _, err := r.Render(ctx, g, s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	case FormatPNG:
		p := NewPNG()
		if _, err := r.Render(ctx, g, p); err != nil {
			return nil, err
		}
		return p.Bytes(), nil
	case FormatDOT:
		src, err := dot.Export(g)
		if err != nil {
			return nil, err
		}
		return []byte(src), nil
	case FormatJSON:
		return graph.MarshalGraph(g)
	default:
		return nil, ValidateFormat(format)
	}
}
