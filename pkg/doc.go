// Package pkg holds the afgraph libraries.
//
// # Overview
//
// afgraph shows how the sequences of a dataset relate to each other without
// aligning them. Two sequences are joined by an edge when they share k-mers;
// the edge label names every relation that holds, and each relation is drawn
// as its own colored arc.
//
//   - [graph] is the directed multi-label graph and its JSON form
//   - [engine] defines the engine contract and the sequence stores; [engine/afg]
//     is the reference k-mer engine, [engine/fasta] and [engine/mongostore]
//     the stores
//   - [index] holds the k-mer index table and its text view
//   - [layout] places nodes (Eades spring embedder, circle, Graphviz)
//   - [render] draws one arc per elementary label with distinct curvature;
//     [render/sink] writes SVG and PNG, [render/dot] writes DOT
//   - [control] is the parameter sync controller behind the k entry
//   - [session] holds per-viewer state and the session registry
//   - [cache] stores graph and index snapshots (file, Redis)
//   - [config] loads and validates connection files
//   - [observability] exposes hooks and Prometheus metrics
//   - [errors] provides coded errors shared by all of the above
//
// # Data flow
//
//	FASTA file / MongoDB
//	         ↓
//	    engine (k-mer index + relation graph at k)
//	         ↓
//	    control (k entry, problem label, index table, graph pull)
//	         ↓
//	    layout → render → SVG/PNG/DOT/JSON
package pkg
