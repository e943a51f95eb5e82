// Package afg is the reference alignment-free graph engine.
//
// The engine slides a window of length k over every sequence of a dataset
// and indexes the resulting k-mers. The index table maps every k-mer to the
// sequences sharing it (with occurrence counts); a k-mer seen in a single
// sequence maps to an empty relation.
//
// The sequence graph has one node per sequence. Relationships between an
// ordered pair (a, b) are elementary edge labels named after the color they
// are drawn in:
//
//	red    every k-mer of a occurs in b (containment)
//	green  a and b share at least one k-mer (a listed before b)
//	blue   the last k-mer of a is the first k-mer of b (suffix/prefix overlap)
//
// Several relationships on one pair form a composite label such as
// "red+green+blue".
//
// Snapshots are memoized per (dataset fingerprint, k) in a [cache.Cache].
//
// [cache.Cache]: github.com/matzehuels/afgraph/pkg/cache.Cache
package afg
