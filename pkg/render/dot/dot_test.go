package dot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/afgraph/pkg/graph"
)

func sample(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{{ID: "s1", Name: "read-1"}, {ID: "s2"}} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.SetEdge("s1", "s2", "red+green")
	_ = g.SetEdge("s2", "s1", "blue")
	return g
}

func TestExport(t *testing.T) {
	src, err := Export(sample(t))
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(src), "digraph G") {
		t.Errorf("Export() should produce a digraph:\n%s", src)
	}
	if got := strings.Count(src, "->"); got != 3 {
		t.Errorf("DOT edges = %d, want 3 (one per elementary label)\n%s", got, src)
	}
	for _, want := range []string{`"#ff0000"`, `"#008000"`, `"#0000ff"`, `read-1\ns1`} {
		if !strings.Contains(src, want) {
			t.Errorf("Export() missing %s:\n%s", want, src)
		}
	}
}

func TestExportEmptyLabel(t *testing.T) {
	g := sample(t)
	_ = g.SetEdge("s1", "s1", "")

	_, err := Export(g)
	var el *graph.EmptyLabelError
	if !errors.As(err, &el) {
		t.Errorf("Export() error = %v, want *graph.EmptyLabelError", err)
	}
}

func TestImport(t *testing.T) {
	src, err := Export(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	g, err := Import([]byte(src))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	if g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Fatalf("Import() = %d nodes, %d edges, want 2, 2", g.NodeCount(), g.EdgeCount())
	}
	e, ok := g.Edge("s1", "s2")
	if !ok {
		t.Fatal("edge s1 -> s2 missing")
	}
	if e.Label != "#ff0000+#008000" {
		t.Errorf("merged label = %q, want #ff0000+#008000", e.Label)
	}
	n, _ := g.Node("s1")
	if n.Name != "read-1" {
		t.Errorf("name = %q, want read-1", n.Name)
	}
}

func TestExportQuotesEveryNode(t *testing.T) {
	g := graph.New()
	nodes := []graph.Node{
		{ID: "s1"},
		{ID: "s2"},
		{ID: "read-3", Name: `say "hi"`},
		{ID: "4", Name: "two words"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.SetEdge("s1", "s2", "red+green")
	_ = g.SetEdge("s2", "read-3", "blue")
	_ = g.SetEdge("read-3", "4", "green")
	_ = g.SetEdge("4", "4", "red")

	src, err := Export(g)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !strings.Contains(src, `label="s2\ns2"`) {
		t.Errorf("unnamed node label not quoted:\n%s", src)
	}

	back, err := Import([]byte(src))
	if err != nil {
		t.Fatalf("Import(Export()) error: %v\n%s", err, src)
	}
	if back.NodeCount() != len(nodes) || back.EdgeCount() != g.EdgeCount() {
		t.Fatalf("Import(Export()) = %d nodes, %d edges, want %d, %d",
			back.NodeCount(), back.EdgeCount(), len(nodes), g.EdgeCount())
	}
	for _, want := range nodes {
		got, ok := back.Node(want.ID)
		if !ok {
			t.Errorf("node %s missing", want.ID)
			continue
		}
		if got.Name != want.Name {
			t.Errorf("node %s name = %q, want %q", want.ID, got.Name, want.Name)
		}
	}
	if e, _ := back.Edge("s1", "s2"); e.Label != "#ff0000+#008000" {
		t.Errorf("s1 -> s2 label = %q, want #ff0000+#008000", e.Label)
	}

	svg, err := RenderSVG(context.Background(), src, Neato)
	if err != nil {
		t.Fatalf("RenderSVG(Export()) error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestImportHandWritten(t *testing.T) {
	g, err := Import([]byte(`digraph G { a -> b [label=red]; a -> b [label=blue]; }`))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := g.Edge("a", "b")
	if e.Label != "red+blue" {
		t.Errorf("label = %q, want red+blue", e.Label)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	src, err := Export(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), src, Neato)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`, Neato); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
	if _, err := RenderSVG(context.Background(), `digraph G { a }`, "circo-ish"); err == nil {
		t.Error("RenderSVG() should reject unknown engines")
	}
}
