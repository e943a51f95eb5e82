// Package index projects an engine's k-mer index into a two-column table.
//
// A [Table] maps an outer k-mer key to a [Relation] of sub-keys. [Rows]
// flattens it into (Key, Value) rows, grouping the sub-rows of a key under a
// single printed key:
//
//	{"AAA": {}, "AAC": {"x": 1, "y": 2}}
//
//	Key  Value
//	AAA  -
//	AAC  x: 1
//	     y: 2
//
// Keys and sub-keys are emitted in lexical order so every view of the same
// table is identical.
package index

import (
	"fmt"
	"maps"
	"slices"
)

// Placeholder is the value shown for a key whose relation is empty.
const Placeholder = "-"

// Relation maps sub-keys to values for one k-mer.
type Relation map[string]any

// Table is the engine's k-mer index.
type Table map[string]Relation

// Row is one line of the table view. Key is empty on the continuation rows of
// a group.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Rows rebuilds the table rows from scratch.
func Rows(t Table) []Row {
	rows := make([]Row, 0, len(t))
	for _, key := range slices.Sorted(maps.Keys(t)) {
		rel := t[key]
		if len(rel) == 0 {
			rows = append(rows, Row{Key: key, Value: Placeholder})
			continue
		}
		shown := key
		for _, sub := range slices.Sorted(maps.Keys(rel)) {
			rows = append(rows, Row{Key: shown, Value: fmt.Sprintf("%s: %v", sub, rel[sub])})
			shown = ""
		}
	}
	return rows
}

// Clone returns a deep copy of t. Relation values are copied shallowly.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for k, rel := range t {
		c[k] = maps.Clone(rel)
		if c[k] == nil {
			c[k] = Relation{}
		}
	}
	return c
}
