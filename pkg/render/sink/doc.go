// Package sink provides document surfaces for [render.Renderer].
//
//   - [SVG]: vector document, one <path> per arc and one arrowhead marker
//     per color
//   - [PNG]: raster image drawn with fogleman/gg
//
// [Encode] picks a sink, or the DOT and JSON exporters, by format name.
//
// A sink is single-use per render: Begin resets it, End finalizes the
// document and Bytes returns it.
//
// [render.Renderer]: github.com/matzehuels/afgraph/pkg/render.Renderer
package sink
