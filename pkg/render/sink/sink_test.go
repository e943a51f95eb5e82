package sink

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/layout"
	"github.com/matzehuels/afgraph/pkg/render"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{{ID: "s1", Name: "a<b"}, {ID: "s2", Name: "read-2"}} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SetEdge("s1", "s2", "red+green+red"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetEdge("s2", "s2", "blue"); err != nil {
		t.Fatal(err)
	}
	return g
}

func testRenderer() *render.Renderer {
	return render.New(render.WithLayouter(layout.NameCircle, layout.Circle{}), render.WithSize(300, 200))
}

func TestSVG(t *testing.T) {
	s := NewSVG(WithBackground("white"))
	stats, err := testRenderer().Render(context.Background(), testGraph(t), s)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := string(s.Bytes())

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 300.0 200.0"`) {
		t.Errorf("unexpected header: %.80s", out)
	}
	if got := strings.Count(out, `class="arc"`); got != stats.Arcs || got != 4 {
		t.Errorf("arc paths = %d, want %d", got, stats.Arcs)
	}
	if got := strings.Count(out, "<marker "); got != 3 {
		t.Errorf("markers = %d, want one per color (3)", got)
	}
	if got := strings.Count(out, "<circle "); got != 2 {
		t.Errorf("node circles = %d, want 2", got)
	}
	for _, want := range []string{`marker-end="url(#arrow-ff0000)"`, `stroke="#008000"`, "a&lt;b", `data-label="blue"`, `fill="white"`} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestSVGReuse(t *testing.T) {
	s := NewSVG()
	r := testRenderer()
	if _, err := r.Render(context.Background(), testGraph(t), s); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(context.Background(), graph.New(), s); err != nil {
		t.Fatal(err)
	}
	out := string(s.Bytes())
	if strings.Contains(out, "<path") || strings.Contains(out, "<marker") {
		t.Error("second render should discard the first document")
	}
}

func TestPNG(t *testing.T) {
	p := NewPNG(WithScale(1))
	if _, err := testRenderer().Render(context.Background(), testGraph(t), p); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(p.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("image size = %dx%d, want 300x200", b.Dx(), b.Dy())
	}
}

func TestPNGScale(t *testing.T) {
	p := NewPNG()
	if _, err := testRenderer().Render(context.Background(), testGraph(t), p); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(p.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 600 {
		t.Errorf("2x image width = %d, want 600", b.Dx())
	}
}

func TestPNGInvalidFrame(t *testing.T) {
	if err := NewPNG().Begin(render.Frame{}); err == nil {
		t.Error("Begin() with empty frame should fail")
	}
}
