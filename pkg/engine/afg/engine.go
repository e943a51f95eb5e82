package afg

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/afgraph/pkg/cache"
	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
	"github.com/matzehuels/afgraph/pkg/observability"
)

// Engine implements [engine.Engine] over a sequence store. Calls are
// serialized; the engine is never reentered.
type Engine struct {
	store  engine.Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger

	mu          sync.Mutex
	k           int
	seqs        []engine.Sequence
	fingerprint string
	loaded      bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache memoizes snapshots in c for ttl (zero keeps them forever).
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache, e.ttl = cache.Instrumented{Cache: c}, ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithInitialK sets k when the store has none recorded.
func WithInitialK(k int) Option {
	return func(e *Engine) { e.k = k }
}

// New creates an engine over store and loads k from it.
func New(ctx context.Context, store engine.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		cache:  cache.NewNullCache(),
		logger: log.New(io.Discard),
		k:      engine.DefaultK,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), store.Scope()+":")

	k, ok, err := store.LoadK(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "load k")
	}
	if ok {
		e.k = k
	}
	if e.k < engine.MinK {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "k must be at least %d, got %d", engine.MinK, e.k)
	}
	return e, nil
}

// K implements engine.Engine.
func (e *Engine) K(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.k, nil
}

// SetK implements engine.Engine. k must be at least 2 and no longer than the
// longest sequence.
func (e *Engine) SetK(ctx context.Context, k int) (err error) {
	start := time.Now()
	defer func() { observability.Engine().OnSetK(ctx, k, time.Since(start), err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if k < engine.MinK {
		return errors.New(errors.ErrCodeInvalidInput, "k must be at least %d, got %d", engine.MinK, k)
	}
	if err := e.loadLocked(ctx); err != nil {
		return err
	}
	if longest := longestSequence(e.seqs); k > longest {
		return errors.New(errors.ErrCodeInvalidInput, "k=%d exceeds the longest sequence (%d)", k, longest)
	}
	if err := e.store.SaveK(ctx, k); err != nil {
		return errors.Wrap(errors.ErrCodeConnection, err, "save k")
	}
	e.logger.Info("k changed", "from", e.k, "to", k)
	e.k = k
	return nil
}

// DirectedGraph implements engine.Engine.
func (e *Engine) DirectedGraph(ctx context.Context) (g *graph.Graph, err error) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() { observability.Engine().OnSnapshot(ctx, "graph", e.k, time.Since(start), err) }()

	if err := e.loadLocked(ctx); err != nil {
		return nil, err
	}
	key := e.keyer.GraphKey(e.fingerprint, e.k)
	if data, ok := e.cached(ctx, key); ok {
		if g, err := graph.UnmarshalGraph(data); err == nil {
			return g, nil
		}
		e.logger.Warn("discarding unreadable graph snapshot", "key", key)
	}

	g, err = BuildGraph(e.seqs, e.k)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build graph")
	}
	e.logger.Debug("built graph", "k", e.k, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	if data, err := graph.MarshalGraph(g); err == nil {
		e.remember(ctx, key, data)
	}
	return g, nil
}

// IndexTable implements engine.Engine.
func (e *Engine) IndexTable(ctx context.Context) (t index.Table, err error) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() { observability.Engine().OnSnapshot(ctx, "index", e.k, time.Since(start), err) }()

	if err := e.loadLocked(ctx); err != nil {
		return nil, err
	}
	key := e.keyer.IndexKey(e.fingerprint, e.k)
	if data, ok := e.cached(ctx, key); ok {
		if err := json.Unmarshal(data, &t); err == nil {
			return t, nil
		}
		e.logger.Warn("discarding unreadable index snapshot", "key", key)
	}

	t = BuildIndex(e.seqs, e.k)
	e.logger.Debug("built index", "k", e.k, "kmers", len(t))
	if data, err := json.Marshal(t); err == nil {
		e.remember(ctx, key, data)
	}
	return t, nil
}

// Reload re-reads the dataset from the store on the next snapshot.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = false
	return e.loadLocked(ctx)
}

// Close closes the store and the cache.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.store.Close(ctx)
	if cerr := e.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

func (e *Engine) loadLocked(ctx context.Context) error {
	if e.loaded {
		return nil
	}
	seqs, err := e.store.Sequences(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConnection, err, "load sequences")
	}
	e.seqs = seqs
	e.fingerprint = fingerprint(seqs)
	e.loaded = true
	e.logger.Debug("loaded dataset", "scope", e.store.Scope(), "sequences", len(seqs))
	return nil
}

func (e *Engine) cached(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	return data, ok
}

func (e *Engine) remember(ctx context.Context, key string, data []byte) {
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("cache write failed", "err", err)
	}
}

func fingerprint(seqs []engine.Sequence) string {
	h := make([]byte, 0, 64*len(seqs))
	for _, s := range seqs {
		h = append(h, s.ID...)
		h = append(h, 0)
		h = append(h, s.Residues...)
		h = append(h, '\n')
	}
	return cache.Digest(h)
}

func longestSequence(seqs []engine.Sequence) int {
	n := 0
	for _, s := range seqs {
		n = max(n, len(s.Residues))
	}
	return n
}

var (
	_ engine.Engine   = (*Engine)(nil)
	_ engine.Reloader = (*Engine)(nil)
	_ engine.Closer   = (*Engine)(nil)
)
