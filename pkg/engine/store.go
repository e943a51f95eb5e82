package engine

import (
	"context"
	"slices"
	"sync"
)

// Sequence is one record of a dataset.
type Sequence struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Residues string `json:"residues" bson:"residues"`
}

// Store provides the sequences of a dataset and persists k.
type Store interface {
	// Sequences returns all sequences in a stable order.
	Sequences(ctx context.Context) ([]Sequence, error)

	// LoadK returns the persisted k, if any.
	LoadK(ctx context.Context) (k int, ok bool, err error)

	// SaveK persists k.
	SaveK(ctx context.Context, k int) error

	// Scope names the dataset, for example "fasta:/data/reads.fa". It
	// separates cache keys of different stores.
	Scope() string

	Close(ctx context.Context) error
}

// MemoryStore is a Store over an in-memory slice.
type MemoryStore struct {
	mu    sync.Mutex
	scope string
	seqs  []Sequence
	k     int
	hasK  bool
}

// NewMemoryStore creates a store holding a copy of seqs.
func NewMemoryStore(scope string, seqs []Sequence) *MemoryStore {
	return &MemoryStore{scope: scope, seqs: slices.Clone(seqs)}
}

// Sequences implements Store.
func (s *MemoryStore) Sequences(context.Context) ([]Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.seqs), nil
}

// Replace swaps the dataset.
func (s *MemoryStore) Replace(seqs []Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs = slices.Clone(seqs)
}

// LoadK implements Store.
func (s *MemoryStore) LoadK(context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.k, s.hasK, nil
}

// SaveK implements Store.
func (s *MemoryStore) SaveK(_ context.Context, k int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.k, s.hasK = k, true
	return nil
}

// Scope implements Store.
func (s *MemoryStore) Scope() string { return "memory:" + s.scope }

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error { return nil }
