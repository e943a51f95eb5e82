// Package graph provides the directed, multi-labeled sequence graph drawn by
// afgraph and its serialization format.
//
// # Model
//
// A [Graph] holds sequence nodes (an identifier plus a display name) and at
// most one [Edge] per ordered node pair. The payload of an edge is a
// composite label: one or more elementary labels joined with
// [LabelDelimiter]. Every elementary label stands for an independent
// relationship and is drawn as its own arc:
//
//	seq1 -> seq2  "red+green"   // two arcs, one red and one green
//
// # Label Contract
//
// Elementary labels are color names. The engine producing the graph picks the
// label, and the renderer uses that label verbatim as the arc color via
// [ParseColor]. No palette is inferred. A composite label that yields an empty
// elementary label violates the contract and is reported as an
// [EmptyLabelError].
//
// # Serialization
//
// Graphs use a node-link JSON document:
//
//	{
//	  "nodes": [{"id": "seq1", "name": "read-1"}],
//	  "edges": [{"source": "seq1", "target": "seq2", "label": "red+green"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	graph.WriteGraphFile(g, "copy.json")
package graph
