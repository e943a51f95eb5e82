package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/afgraph/pkg/graph"
)

// Graphviz layout engines accepted by the render functions.
const (
	Neato = "neato"
	FDP   = "fdp"
	Dot   = "dot"
)

const graphName = "G"

// Export converts g to DOT. Every elementary label becomes its own edge with
// a color attribute; node labels show the name above the ID. Labels are
// validated like the renderer does, so an empty label fails with
// *graph.EmptyLabelError.
func Export(g *graph.Graph) (string, error) {
	out := gographviz.NewEscape()
	attrs := map[string]string{
		"bgcolor": "transparent",
		"overlap": "false",
		"splines": "true",
	}
	if err := out.SetName(graphName); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}
	for k, v := range attrs {
		if err := out.AddAttr(graphName, k, v); err != nil {
			return "", err
		}
	}

	for _, n := range g.Nodes() {
		err := out.AddNode(graphName, quote(n.ID), map[string]string{
			"shape":     "circle",
			"style":     "filled",
			"fillcolor": "skyblue",
			"label":     `"` + escapeString(n.DisplayName()) + `\n` + escapeString(n.ID) + `"`,
		})
		if err != nil {
			return "", fmt.Errorf("node %s: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges() {
		labels, err := e.Labels()
		if err != nil {
			return "", err
		}
		for _, l := range labels {
			c, err := graph.ParseColor(l)
			if err != nil {
				return "", fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
			}
			err = out.AddEdge(quote(e.Source), quote(e.Target), true, map[string]string{
				"color":     graph.HexColor(c),
				"penwidth":  "2",
				"arrowsize": "1.2",
			})
			if err != nil {
				return "", fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
			}
		}
	}
	return out.String(), nil
}

// Import reads a DOT document produced by [Export] or by hand. Parallel
// edges between the same ordered pair are merged into one composite label;
// each edge contributes its color attribute, or its label if uncolored.
func Import(src []byte) (*graph.Graph, error) {
	in, err := gographviz.Read(src)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}

	g := graph.New()
	for _, n := range in.Nodes.Nodes {
		id := unquote(n.Name)
		if err := g.AddNode(graph.Node{ID: id, Name: nodeName(n.Attrs[gographviz.Label], id)}); err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}
	for _, e := range in.Edges.Edges {
		label := unquote(e.Attrs[gographviz.Color])
		if label == "" {
			label = unquote(e.Attrs[gographviz.Label])
		}
		if err := g.AddLabel(unquote(e.Src), unquote(e.Dst), label); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.Src, e.Dst, err)
		}
	}
	return g, nil
}

// quote makes s a DOT string literal.
func quote(s string) string {
	return `"` + escapeString(s) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeString(s string) string {
	return dotEscaper.Replace(s)
}

// nodeName takes the first line of a node label.
func nodeName(label, id string) string {
	name, _, _ := strings.Cut(unquote(label), "\n")
	if name == id {
		return ""
	}
	return name
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using the given Graphviz layout
// engine.
func RenderSVG(ctx context.Context, src, engine string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, src, engine, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using the given Graphviz layout
// engine.
func RenderPNG(ctx context.Context, src, engine string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, src, engine, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(ctx context.Context, src, engine string, format graphviz.Format, buf *bytes.Buffer) error {
	layout, err := layoutEngine(engine)
	if err != nil {
		return err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.SetLayout(layout).Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func layoutEngine(name string) (graphviz.Layout, error) {
	switch name {
	case "", Neato:
		return graphviz.NEATO, nil
	case FDP:
		return graphviz.FDP, nil
	case Dot:
		return graphviz.DOT, nil
	default:
		return "", fmt.Errorf("unknown graphviz engine %q", name)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
