// Package fasta reads sequence datasets from FASTA files.
//
// A [Store] serves the records of one file and persists k in a small TOML
// sidecar next to it (reads.fa → reads.fa.afgraph.toml), so a dataset
// reopens with the k it was last viewed at.
package fasta

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/errors"
)

// Parse reads FASTA records from r. The record ID is the first word of the
// header line, the name is the rest. Residue lines are concatenated with
// whitespace removed. Blank lines and ';' comments are skipped.
func Parse(r io.Reader) ([]engine.Sequence, error) {
	var (
		seqs []engine.Sequence
		cur  *engine.Sequence
		body strings.Builder
		seen = make(map[string]bool)
		line int
	)
	flush := func() {
		if cur != nil {
			cur.Residues = body.String()
			seqs = append(seqs, *cur)
			body.Reset()
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == ';' {
			continue
		}
		if text[0] == '>' {
			flush()
			id, name, _ := strings.Cut(strings.TrimSpace(text[1:]), " ")
			if id == "" {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: empty record header", line)
			}
			if seen[id] {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: duplicate record %q", line, id)
			}
			seen[id] = true
			cur = &engine.Sequence{ID: id, Name: strings.TrimSpace(name)}
			continue
		}
		if cur == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: residues before the first header", line)
		}
		body.WriteString(strings.Join(strings.Fields(text), ""))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return seqs, nil
}

// ParseFile reads FASTA records from path.
func ParseFile(path string) ([]engine.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	seqs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seqs, nil
}

// Write writes seqs to w in FASTA format with residues wrapped at 60 columns.
func Write(w io.Writer, seqs []engine.Sequence) error {
	bw := bufio.NewWriter(w)
	for _, s := range seqs {
		header := s.ID
		if s.Name != "" {
			header += " " + s.Name
		}
		fmt.Fprintf(bw, ">%s\n", header)
		for r := s.Residues; len(r) > 0; {
			n := min(60, len(r))
			fmt.Fprintln(bw, r[:n])
			r = r[n:]
		}
	}
	return bw.Flush()
}

// Store serves the sequences of a FASTA file. The file is re-read on every
// call to Sequences, so edits show up after an engine reload.
type Store struct {
	path string
}

// NewStore creates a store for path. The file must exist.
func NewStore(path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "dataset %s", path)
	}
	return &Store{path: abs}, nil
}

// Path returns the absolute path of the FASTA file.
func (s *Store) Path() string { return s.path }

// Sequences implements engine.Store.
func (s *Store) Sequences(context.Context) ([]engine.Sequence, error) {
	return ParseFile(s.path)
}

type state struct {
	K int `toml:"k"`
}

func (s *Store) statePath() string { return s.path + ".afgraph.toml" }

// LoadK implements engine.Store.
func (s *Store) LoadK(context.Context) (int, bool, error) {
	var st state
	if _, err := toml.DecodeFile(s.statePath(), &st); err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read %s: %w", s.statePath(), err)
	}
	return st.K, st.K != 0, nil
}

// SaveK implements engine.Store.
func (s *Store) SaveK(_ context.Context, k int) error {
	f, err := os.Create(s.statePath())
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(state{K: k}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Scope implements engine.Store.
func (s *Store) Scope() string { return "fasta:" + s.path }

// Close implements engine.Store.
func (s *Store) Close(context.Context) error { return nil }

var _ engine.Store = (*Store)(nil)
