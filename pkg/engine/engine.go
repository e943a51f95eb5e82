// Package engine defines the graph engine contract and sequence stores.
//
// An [Engine] owns the k parameter and the k-mer index, and builds the
// labeled sequence graph. Hosts never cache engine snapshots: every redraw
// and table refresh pulls fresh data through this interface.
//
// The reference implementation lives in [afg]; sequence stores in [fasta]
// and [mongostore].
//
// [afg]: github.com/matzehuels/afgraph/pkg/engine/afg
// [fasta]: github.com/matzehuels/afgraph/pkg/engine/fasta
// [mongostore]: github.com/matzehuels/afgraph/pkg/engine/mongostore
package engine

import (
	"context"

	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
)

// Engine is the graph engine a session talks to.
type Engine interface {
	// DirectedGraph returns the sequence graph at the current k.
	DirectedGraph(ctx context.Context) (*graph.Graph, error)

	// IndexTable returns the k-mer index at the current k.
	IndexTable(ctx context.Context) (index.Table, error)

	// K returns the current k.
	K(ctx context.Context) (int, error)

	// SetK changes k. It fails for values the engine cannot index with.
	SetK(ctx context.Context, k int) error
}

// Reloader is implemented by engines whose dataset can change underneath
// them, for example a watched FASTA file.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Closer is implemented by engines holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// MinK is the smallest k an engine accepts.
const MinK = 2

// DefaultK is the k used when the store has none recorded.
const DefaultK = 3
