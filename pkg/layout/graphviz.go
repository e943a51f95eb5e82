package layout

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/afgraph/pkg/graph"
)

// Graphviz places nodes with a Graphviz layout engine ("neato" or "fdp").
type Graphviz struct {
	Engine string
}

// Layout builds a DOT graph, runs the Graphviz engine and reads the "pos"
// attribute of every node back.
func (l *Graphviz) Layout(ctx context.Context, g *graph.Graph) (Positions, error) {
	nodes := g.Nodes()
	pos := make(Positions, len(nodes))
	if len(nodes) == 0 {
		return pos, nil
	}

	// Graphviz sees neutral names so arbitrary sequence IDs need no quoting.
	names := make(map[string]string, len(nodes))
	byName := make(map[string]string, len(nodes))
	for i, n := range nodes {
		name := "n" + strconv.Itoa(i)
		names[n.ID] = name
		byName[name] = n.ID
	}

	src, err := layoutDOT(g, names)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	engine := graphviz.NEATO
	if l.Engine == NameFDP {
		engine = graphviz.FDP
	}
	var buf bytes.Buffer
	if err := gv.SetLayout(engine).Render(ctx, parsed, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout %s: %w", engine, err)
	}

	out, err := gographviz.Read(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	for _, n := range out.Nodes.Nodes {
		id, ok := byName[unquote(n.Name)]
		if !ok {
			continue
		}
		p, err := parsePos(n.Attrs[gographviz.Pos])
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
		pos[id] = p
	}
	if len(pos) != len(nodes) {
		return nil, fmt.Errorf("layout placed %d of %d nodes", len(pos), len(nodes))
	}
	return pos, nil
}

func layoutDOT(g *graph.Graph, names map[string]string) (string, error) {
	dg := gographviz.NewGraph()
	if err := dg.SetName("G"); err != nil {
		return "", err
	}
	if err := dg.SetDir(true); err != nil {
		return "", err
	}
	if err := dg.AddAttr("G", string(gographviz.Overlap), "false"); err != nil {
		return "", err
	}
	for _, n := range g.Nodes() {
		if err := dg.AddNode("G", names[n.ID], nil); err != nil {
			return "", err
		}
	}
	for _, e := range g.Edges() {
		if e.IsLoop() {
			continue
		}
		if err := dg.AddEdge(names[e.Source], names[e.Target], true, nil); err != nil {
			return "", err
		}
	}
	return dg.String(), nil
}

// parsePos reads a Graphviz point such as "27,18" or "27,18!".
func parsePos(s string) (Point, error) {
	s = strings.TrimSuffix(unquote(s), "!")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("invalid pos %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid pos %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid pos %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}
