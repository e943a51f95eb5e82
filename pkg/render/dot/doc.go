// Package dot exports sequence graphs as Graphviz DOT and renders them with
// Graphviz.
//
// The export keeps the multigraph shape: an edge with composite label
// "red+green" becomes two DOT edges colored red and green.
//
//	src, err := dot.Export(g)
//	svg, err := dot.RenderSVG(ctx, src, dot.Neato)
package dot
