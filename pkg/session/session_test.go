package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
)

func TestNew(t *testing.T) {
	a, b := New(nil), New(nil)
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", a.ID, err)
	}
	if a.ID == b.ID {
		t.Error("two sessions share an ID")
	}
}

func TestView(t *testing.T) {
	s := New(nil)
	v := s.View()
	if v.Rows == nil || len(v.Rows) != 0 {
		t.Errorf("View().Rows = %#v, want empty slice", v.Rows)
	}

	g := graph.New()
	_ = g.AddNode(graph.Node{ID: "a"})
	_ = g.AddNode(graph.Node{ID: "b"})
	_ = g.SetEdge("a", "b", "red")
	s.Graph = g
	s.Entry, s.K, s.Problem = "3", 3, "x not feasible"
	s.Rows = []index.Row{{Key: "AC", Value: "-"}}

	v = s.View()
	if v.Nodes != 2 || v.Edges != 1 || v.Entry != "3" || v.Problem != "x not feasible" {
		t.Errorf("View() = %+v", v)
	}
	v.Rows[0].Value = "changed"
	if s.Rows[0].Value != "-" {
		t.Error("View() rows alias the session")
	}
}

func TestIsExpired(t *testing.T) {
	s := New(nil)
	s.LastSeen = time.Now().Add(-time.Hour)
	tests := []struct {
		ttl  time.Duration
		want bool
	}{
		{0, false},
		{2 * time.Hour, false},
		{time.Minute, true},
	}
	for _, tt := range tests {
		if got := s.IsExpired(tt.ttl); got != tt.want {
			t.Errorf("IsExpired(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(time.Minute)
	s := New(nil)
	r.Add(s, "ctrl")

	got, value, err := r.Get(s.ID)
	if err != nil || got != s || value != "ctrl" {
		t.Fatalf("Get() = %v, %v, %v", got, value, err)
	}
	if _, _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	s.LastSeen = time.Now().Add(-time.Hour)
	if _, _, err := r.Get(s.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get(idle) = %v, want ErrExpired", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", r.Len())
	}
}

func TestRegistryCleanup(t *testing.T) {
	r := NewRegistry(time.Minute)
	live, idle := New(nil), New(nil)
	idle.LastSeen = time.Now().Add(-time.Hour)
	r.Add(live, nil)
	r.Add(idle, nil)

	if n := r.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if _, _, err := r.Get(live.ID); err != nil {
		t.Errorf("Get(live) = %v", err)
	}
	r.Delete(live.ID)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryRange(t *testing.T) {
	r := NewRegistry(0)
	for i := 0; i < 3; i++ {
		r.Add(New(nil), i)
	}
	seen := 0
	r.Range(func(*Session, any) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("Range visited %d sessions, want 2", seen)
	}
}
