package layout

import (
	"context"
	"math"
	"slices"
	"testing"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/afgraph/pkg/graph"
)

func sampleGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.New()
	ids := []string{"s1", "s2", "s3", "s4", "s5", "s6"}[:n]
	for _, id := range ids {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i < len(ids); i++ {
		if err := g.SetEdge(ids[i-1], ids[i], "red+green"); err != nil {
			t.Fatal(err)
		}
	}
	if n > 0 {
		_ = g.SetEdge(ids[0], ids[0], "blue")
	}
	return g
}

func checkPlaced(t *testing.T, g *graph.Graph, pos Positions) {
	t.Helper()
	if len(pos) != g.NodeCount() {
		t.Fatalf("placed %d nodes, want %d", len(pos), g.NodeCount())
	}
	for _, n := range g.Nodes() {
		p, ok := pos[n.ID]
		if !ok {
			t.Errorf("node %s not placed", n.ID)
			continue
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("node %s at invalid point %v", n.ID, p)
		}
	}
}

func TestEades(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		g := sampleGraph(t, n)
		e := NewEades()
		e.Seed = 7
		pos, err := e.Layout(context.Background(), g)
		if err != nil {
			t.Fatalf("Layout(%d nodes) error: %v", n, err)
		}
		checkPlaced(t, g, pos)
	}
}

func TestEadesSeeded(t *testing.T) {
	g := sampleGraph(t, 6)
	layout := func() Positions {
		e := &Eades{Updates: 10, Repulsion: 1, Rate: 0.05, Theta: 0.2, Seed: 42}
		pos, err := e.Layout(context.Background(), g)
		if err != nil {
			t.Fatal(err)
		}
		return pos
	}

	want := layout()
	for run := 0; run < 5; run++ {
		got := layout()
		for id, p := range want {
			if got[id] != p {
				t.Fatalf("run %d: seeded layouts differ at %s: %v vs %v", run, id, p, got[id])
			}
		}
	}
}

func TestOrderedGraph(t *testing.T) {
	ug := simple.NewUndirectedGraph()
	for _, id := range []int64{5, 1, 4, 0, 3, 2} {
		ug.AddNode(simple.Node(id))
	}
	for _, id := range []int64{4, 1, 5, 2} {
		ug.SetEdge(ug.NewEdge(simple.Node(3), simple.Node(id)))
	}
	g := orderedGraph{ug}

	tests := []struct {
		name string
		it   gonumgraph.Nodes
		want []int64
	}{
		{"nodes", g.Nodes(), []int64{0, 1, 2, 3, 4, 5}},
		{"from", g.From(3), []int64{1, 2, 4, 5}},
		{"isolated", g.From(0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for tt.it.Next() {
				got = append(got, tt.it.Node().ID())
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEadesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEades()
	e.Seed = 1
	if _, err := e.Layout(ctx, sampleGraph(t, 4)); err == nil {
		t.Error("Layout() with canceled context should fail")
	}
}

func TestCircle(t *testing.T) {
	g := sampleGraph(t, 4)
	pos, err := Circle{}.Layout(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	checkPlaced(t, g, pos)

	top := pos["s1"]
	if math.Abs(top.X) > 1e-9 || math.Abs(top.Y+1) > 1e-9 {
		t.Errorf("first node = %v, want (0,-1)", top)
	}
	for id, p := range pos {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > 1e-9 {
			t.Errorf("node %s radius = %v, want 1", id, r)
		}
	}
}

func TestGraphviz(t *testing.T) {
	for _, engine := range []string{NameNeato, NameFDP} {
		t.Run(engine, func(t *testing.T) {
			g := sampleGraph(t, 3)
			pos, err := (&Graphviz{Engine: engine}).Layout(context.Background(), g)
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			checkPlaced(t, g, pos)
		})
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		in      string
		want    Point
		wantErr bool
	}{
		{`"27,18"`, Point{27, 18}, false},
		{`"1.5,-2!"`, Point{1.5, -2}, false},
		{`27`, Point{}, true},
		{`"a,b"`, Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePos(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePos(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePos(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", NameEades, NameNeato, NameFDP, NameCircle} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	if _, err := ByName("spring"); err == nil {
		t.Error("ByName(spring) should fail")
	}
}

func TestBounds(t *testing.T) {
	lo, hi := Positions{
		"a": {X: 1, Y: 5},
		"b": {X: -3, Y: 2},
		"c": {X: 4, Y: -1},
	}.Bounds()
	if lo != (Point{-3, -1}) || hi != (Point{4, 5}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
	lo, hi = Positions{}.Bounds()
	if lo != (Point{}) || hi != (Point{}) {
		t.Errorf("Bounds() of empty = %v, %v", lo, hi)
	}
}
