package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Snapshot kinds, the second to last segment of every key.
const (
	KindGraph = "graph"
	KindIndex = "index"
)

// Keyer builds cache keys for engine snapshots.
type Keyer interface {
	// GraphKey identifies the sequence graph of a dataset at k.
	GraphKey(dataset string, k int) string

	// IndexKey identifies the k-mer index of a dataset at k.
	IndexKey(dataset string, k int) string
}

// DefaultKeyer keys a snapshot as "<kind>:<digest of dataset and k>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(dataset string, k int) string {
	return snapshotKey(KindGraph, dataset, k)
}

// IndexKey implements Keyer.
func (DefaultKeyer) IndexKey(dataset string, k int) string {
	return snapshotKey(KindIndex, dataset, k)
}

func snapshotKey(kind, dataset string, k int) string {
	return kind + ":" + Digest([]byte(dataset+"\x00k="+strconv.Itoa(k)))
}

// ScopedKeyer prefixes another keyer's keys with the store scope, so
// datasets from different stores never share keys even when their
// fingerprints collide.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mongo:genomes:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey implements Keyer.
func (s ScopedKeyer) GraphKey(dataset string, k int) string {
	return s.prefix + s.inner.GraphKey(dataset, k)
}

// IndexKey implements Keyer.
func (s ScopedKeyer) IndexKey(dataset string, k int) string {
	return s.prefix + s.inner.IndexKey(dataset, k)
}

// KeyType returns the snapshot kind of a key produced by a Keyer, used to
// label cache metrics. Scope prefixes are ignored.
func KeyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

// Digest is the hex SHA-256 of data. The engine uses it to fingerprint
// datasets; the file cache uses it to name entries.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
