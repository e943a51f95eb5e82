package afg

import (
	"strings"

	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
)

// Relationship labels.
const (
	LabelContainment = "red"
	LabelSharedKmer  = "green"
	LabelOverlap     = "blue"
)

// Kmers returns the k-mers of s in order, upper-cased. A sequence shorter
// than k has none.
func Kmers(s string, k int) []string {
	s = strings.ToUpper(s)
	if k <= 0 || len(s) < k {
		return nil
	}
	out := make([]string, 0, len(s)-k+1)
	for i := 0; i+k <= len(s); i++ {
		out = append(out, s[i:i+k])
	}
	return out
}

// BuildIndex builds the k-mer index of seqs.
func BuildIndex(seqs []engine.Sequence, k int) index.Table {
	occ := make(map[string]map[string]int)
	for _, s := range seqs {
		for _, m := range Kmers(s.Residues, k) {
			bySeq, ok := occ[m]
			if !ok {
				bySeq = make(map[string]int)
				occ[m] = bySeq
			}
			bySeq[s.ID]++
		}
	}

	t := make(index.Table, len(occ))
	for m, bySeq := range occ {
		rel := index.Relation{}
		if len(bySeq) > 1 {
			for id, n := range bySeq {
				rel[id] = n
			}
		}
		t[m] = rel
	}
	return t
}

type profile struct {
	set         map[string]struct{}
	first, last string
}

func newProfile(residues string, k int) profile {
	ms := Kmers(residues, k)
	p := profile{set: make(map[string]struct{}, len(ms))}
	for _, m := range ms {
		p.set[m] = struct{}{}
	}
	if len(ms) > 0 {
		p.first, p.last = ms[0], ms[len(ms)-1]
	}
	return p
}

// contained reports whether every k-mer of a occurs in b.
func (a profile) contained(b profile) bool {
	if len(a.set) == 0 || len(a.set) > len(b.set) {
		return false
	}
	for m := range a.set {
		if _, ok := b.set[m]; !ok {
			return false
		}
	}
	return true
}

func (a profile) shares(b profile) bool {
	small, large := a.set, b.set
	if len(small) > len(large) {
		small, large = large, small
	}
	for m := range small {
		if _, ok := large[m]; ok {
			return true
		}
	}
	return false
}

// BuildGraph builds the labeled sequence graph of seqs. Nodes keep the order
// of seqs.
func BuildGraph(seqs []engine.Sequence, k int) (*graph.Graph, error) {
	g := graph.New()
	profiles := make([]profile, len(seqs))
	for i, s := range seqs {
		if err := g.AddNode(graph.Node{ID: s.ID, Name: s.Name}); err != nil {
			return nil, err
		}
		profiles[i] = newProfile(s.Residues, k)
	}

	for i, a := range profiles {
		for j, b := range profiles {
			if i == j {
				continue
			}
			var labels []string
			// Identical k-mer sets contain each other; keep one direction.
			if a.contained(b) && (len(a.set) < len(b.set) || i < j) {
				labels = append(labels, LabelContainment)
			}
			if i < j && a.shares(b) {
				labels = append(labels, LabelSharedKmer)
			}
			if a.last != "" && a.last == b.first {
				labels = append(labels, LabelOverlap)
			}
			if len(labels) == 0 {
				continue
			}
			if err := g.SetEdge(seqs[i].ID, seqs[j].ID, graph.JoinLabels(labels...)); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
