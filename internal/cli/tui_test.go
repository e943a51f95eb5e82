package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/afgraph/pkg/control"
	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/engine/afg"
	"github.com/matzehuels/afgraph/pkg/layout"
	"github.com/matzehuels/afgraph/pkg/render"
	"github.com/matzehuels/afgraph/pkg/session"
)

var tuiSample = []engine.Sequence{
	{ID: "a", Name: "long", Residues: "ACGTAC"},
	{ID: "b", Residues: "CGTA"},
	{ID: "c", Residues: "GGGAAA"},
	{ID: "d", Residues: "AAATTT"},
}

func newTestModel(t *testing.T) tuiModel {
	t.Helper()
	ctx := context.Background()
	eng, err := afg.New(ctx, engine.NewMemoryStore("memory", tuiSample))
	if err != nil {
		t.Fatalf("afg.New() error: %v", err)
	}
	ctrl := control.New(session.New(eng))
	if err := ctrl.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	r := render.New(render.WithLayouter(layout.NameCircle, layout.Circle{}))
	return newTUIModel(ctx, ctrl, r, "memory")
}

// step feeds msg to m and runs the returned command chain to completion.
func step(t *testing.T, m tuiModel, msg tea.Msg) tuiModel {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(tuiModel)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return m
}

func enterK(t *testing.T, m tuiModel, raw string) tuiModel {
	t.Helper()
	m.input.SetValue(raw)
	return step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestTUIInitialView(t *testing.T) {
	m := newTestModel(t)
	if m.input.Value() != "3" {
		t.Errorf("entry = %q, want %q", m.input.Value(), "3")
	}
	if len(m.view.Rows) == 0 {
		t.Error("index rows should be filled on start")
	}

	m = step(t, m, m.draw()())
	if len(m.arcs) != 4 {
		t.Errorf("arcs = %d, want 4", len(m.arcs))
	}
	if m.stats.Arcs != len(m.arcs) {
		t.Errorf("stats.Arcs = %d, want %d", m.stats.Arcs, len(m.arcs))
	}

	out := m.View()
	for _, want := range []string{"Index", "Key", "Value", "green"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestTUIProposeK(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, m.draw()())
	arcsBefore := len(m.arcs)

	m = enterK(t, m, "abc")
	if m.input.Value() != "3" || m.view.Problem != "abc not feasible" {
		t.Fatalf("after abc: entry %q problem %q", m.input.Value(), m.view.Problem)
	}
	if !strings.Contains(m.View(), "abc not feasible") {
		t.Error("View() should show the problem label")
	}

	m = enterK(t, m, "3")
	if m.view.Problem != "abc not feasible" {
		t.Errorf("unchanged k cleared the problem label: %q", m.view.Problem)
	}
	if m.status != "k = 3 unchanged" {
		t.Errorf("status = %q, want %q", m.status, "k = 3 unchanged")
	}

	m = enterK(t, m, "4")
	if m.view.K != 4 || m.view.Problem != "" {
		t.Errorf("after 4: k %d problem %q", m.view.K, m.view.Problem)
	}
	if len(m.arcs) != arcsBefore {
		t.Error("commit should not redraw the graph")
	}
}

func TestTUIRedraw(t *testing.T) {
	m := newTestModel(t)
	m.output = filepath.Join(t.TempDir(), "graph.svg")
	m = enterK(t, m, "6")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})

	if m.err != nil {
		t.Fatalf("redraw error: %v", m.err)
	}
	if m.view.Edges != 0 || len(m.arcs) != 0 {
		t.Errorf("at k=6: edges %d arcs %d, want 0", m.view.Edges, len(m.arcs))
	}
	data, err := os.ReadFile(m.output)
	if err != nil {
		t.Fatalf("redraw did not write the SVG: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not an SVG document")
	}
}

func TestTUIRefreshAndQuit(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.err != nil {
		t.Fatalf("refresh error: %v", m.err)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestDescribeOutcome(t *testing.T) {
	tests := []struct {
		out  control.Outcome
		want string
	}{
		{control.Outcome{State: control.Committed, K: 5}, "k = 5 committed"},
		{control.Outcome{State: control.Rejected, Reason: control.ReasonUnchanged, K: 3}, "k = 3 unchanged"},
		{control.Outcome{State: control.Rejected, Reason: control.ReasonInfeasible, K: 3}, "rejected: infeasible"},
	}
	for _, tt := range tests {
		if got := describeOutcome(tt.out); got != tt.want {
			t.Errorf("describeOutcome(%+v) = %q, want %q", tt.out, got, tt.want)
		}
	}
}
