// Package session holds the per-connection state of a graph viewer.
//
// A [Session] pairs an engine handle with the mirror a user interface shows:
// the k entry field, the problem label, the index table rows and the last
// pulled graph. Exactly one session exists per connection. The terminal UI
// owns a single session; the web host keeps one per browser in a
// [Registry].
//
// Sessions are mutated only by the parameter sync controller, which
// serializes access. Hosts read them through [Session.View].
//
// # Usage
//
//	sess := session.New(eng)
//	ctrl := control.New(sess)
//	ctrl.Start(ctx)
//	view := sess.View()
package session

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
)

// Sentinel errors for registry lookups.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has been idle past its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is how long an idle web session is kept.
const DefaultTTL = 2 * time.Hour

// Session is the engine handle plus the UI mirror of one connection.
type Session struct {
	ID        string
	Engine    engine.Engine
	CreatedAt time.Time
	LastSeen  time.Time

	// Entry is the text shown in the k entry field.
	Entry string
	// Problem is the problem label text; empty when there is none.
	Problem string
	// K is the last k confirmed by the engine.
	K int
	// Rows are the index table rows, rebuilt from scratch on refresh.
	Rows []index.Row
	// Graph is the last graph pulled for drawing, nil before the first
	// redraw.
	Graph *graph.Graph
	// State is the name of the controller state after the last command.
	State string
}

// New creates a session over eng with a fresh ID.
func New(eng engine.Engine) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Engine:    eng,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// Touch records activity.
func (s *Session) Touch() { s.LastSeen = time.Now() }

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(s.LastSeen) > ttl
}

// View is a read-only copy of a session's mirror.
type View struct {
	ID      string      `json:"id"`
	Entry   string      `json:"entry"`
	Problem string      `json:"problem,omitempty"`
	K       int         `json:"k"`
	State   string      `json:"state"`
	Rows    []index.Row `json:"rows"`
	Nodes   int         `json:"nodes"`
	Edges   int         `json:"edges"`
}

// View copies the mirror. Callers must hold the controller lock or
// otherwise know no command is running.
func (s *Session) View() View {
	v := View{
		ID:      s.ID,
		Entry:   s.Entry,
		Problem: s.Problem,
		K:       s.K,
		State:   s.State,
		Rows:    slices.Clone(s.Rows),
	}
	if v.Rows == nil {
		v.Rows = []index.Row{}
	}
	if s.Graph != nil {
		v.Nodes, v.Edges = s.Graph.NodeCount(), s.Graph.EdgeCount()
	}
	return v
}
