package afg

import (
	"slices"
	"testing"

	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/index"
)

func TestKmers(t *testing.T) {
	tests := []struct {
		s    string
		k    int
		want []string
	}{
		{"ACGT", 2, []string{"AC", "CG", "GT"}},
		{"acgt", 4, []string{"ACGT"}},
		{"ACG", 4, nil},
		{"", 2, nil},
		{"ACGT", 0, nil},
	}
	for _, tt := range tests {
		if got := Kmers(tt.s, tt.k); !slices.Equal(got, tt.want) {
			t.Errorf("Kmers(%q, %d) = %v, want %v", tt.s, tt.k, got, tt.want)
		}
	}
}

func TestBuildIndex(t *testing.T) {
	seqs := []engine.Sequence{
		{ID: "a", Residues: "ACGTT"},
		{ID: "b", Residues: "CGTCGT"},
	}
	got := BuildIndex(seqs, 3)

	want := map[string]index.Relation{
		"ACG": {},
		"CGT": {"a": 1, "b": 2},
		"GTT": {},
		"GTC": {},
		"TCG": {},
	}
	if len(got) != len(want) {
		t.Fatalf("len(BuildIndex) = %d, want %d (%v)", len(got), len(want), got)
	}
	for m, rel := range want {
		gotRel, ok := got[m]
		if !ok {
			t.Errorf("k-mer %s missing", m)
			continue
		}
		if len(gotRel) != len(rel) {
			t.Errorf("relation %s = %v, want %v", m, gotRel, rel)
			continue
		}
		for id, n := range rel {
			if gotRel[id] != n {
				t.Errorf("relation %s[%s] = %v, want %v", m, id, gotRel[id], n)
			}
		}
	}
}

func TestBuildGraph(t *testing.T) {
	seqs := []engine.Sequence{
		{ID: "a", Name: "long", Residues: "ACGTAC"},
		{ID: "b", Residues: "CGTA"},
		{ID: "c", Residues: "GGGAAA"},
		{ID: "d", Residues: "AAATTT"},
	}
	g, err := BuildGraph(seqs, 3)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	if got := g.NodeCount(); got != 4 {
		t.Errorf("NodeCount() = %d, want 4", got)
	}
	ids := make([]string, 0, 4)
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	if !slices.Equal(ids, []string{"a", "b", "c", "d"}) {
		t.Errorf("node order = %v, want [a b c d]", ids)
	}

	tests := []struct {
		source, target string
		want           string
	}{
		{"a", "b", "green"},
		{"b", "a", "red"},
		{"c", "d", "green+blue"},
	}
	for _, tt := range tests {
		e, ok := g.Edge(tt.source, tt.target)
		if !ok {
			t.Errorf("edge %s->%s missing", tt.source, tt.target)
			continue
		}
		if e.Label != tt.want {
			t.Errorf("edge %s->%s label = %q, want %q", tt.source, tt.target, e.Label, tt.want)
		}
	}
	if got := g.EdgeCount(); got != len(tests) {
		t.Errorf("EdgeCount() = %d, want %d", got, len(tests))
	}
}

func TestBuildGraphIdenticalSequences(t *testing.T) {
	seqs := []engine.Sequence{
		{ID: "x", Residues: "ACGT"},
		{ID: "y", Residues: "ACGT"},
	}
	g, err := BuildGraph(seqs, 2)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	e, ok := g.Edge("x", "y")
	if !ok || e.Label != "red+green" {
		t.Errorf("edge x->y = %+v, want red+green", e)
	}
	if _, ok := g.Edge("y", "x"); ok {
		t.Error("identical sequences produced containment in both directions")
	}
}

func TestBuildGraphDuplicateID(t *testing.T) {
	seqs := []engine.Sequence{{ID: "a", Residues: "ACGT"}, {ID: "a", Residues: "TTTT"}}
	if _, err := BuildGraph(seqs, 2); err == nil {
		t.Error("BuildGraph(duplicate IDs) = nil error, want error")
	}
}
