package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/config"
	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/render/dot"
	"github.com/matzehuels/afgraph/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "png", "dot", "json"
	layout   string   // node placement: eades, neato, fdp, circle
	width    int      // frame width in pixels
	height   int      // frame height in pixels
	graphviz string   // render svg/png through Graphviz with this engine instead
	input    string   // read the graph from a .dot/.gv or .json file instead of a connection
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sequence graph at the current k",
		Long: `Render the sequence graph at the current k.

Every relation between two sequences is drawn as its own colored arc:
red for containment, green for shared k-mers and blue for suffix/prefix
overlap. Parallel arcs fan out with alternating curvature.

With --input the graph is read from a DOT or JSON file written by an earlier
render, and no connection is opened.`,
		Example: `  afgraph render -l reads.fa -f svg,dot
  afgraph render --input graph-k3.dot --layout circle -o graph.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := sink.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "node placement: eades (default), neato, fdp, circle")
	cmd.Flags().IntVar(&opts.width, "width", 0, "frame width")
	cmd.Flags().IntVar(&opts.height, "height", 0, "frame height")
	cmd.Flags().StringVar(&opts.graphviz, "graphviz", "", "draw svg/png with Graphviz using this engine (neato, fdp, dot)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "render a .dot, .gv or .json graph file instead of the dataset")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{sink.FormatSVG}
	}
	return strings.Split(s, ",")
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var (
		g    *graph.Graph
		rc   config.Render
		base string
		err  error
	)
	if opts.input != "" {
		g, err = readGraphFile(opts.input)
		if err != nil {
			return err
		}
		base = strings.TrimSuffix(filepath.Base(opts.input), filepath.Ext(opts.input))
		prog.done("Read graph", "path", opts.input, "nodes", g.NodeCount())
	} else {
		conn, err := c.connect(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		rc = conn.cfg.Render
		g, err = conn.engine.DirectedGraph(ctx)
		if err != nil {
			return err
		}
		k, _ := conn.engine.K(ctx)
		base = fmt.Sprintf("graph-k%d", k)
		prog.done("Built graph", "k", k, "nodes", g.NodeCount())
	}

	if opts.layout != "" {
		rc.Layout = opts.layout
	}
	if opts.width > 0 {
		rc.Width = opts.width
	}
	if opts.height > 0 {
		rc.Height = opts.height
	}
	renderer, err := newRenderer(rc)
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, base, opts.formats)
	for i, format := range opts.formats {
		var data []byte
		if opts.graphviz != "" && (format == sink.FormatSVG || format == sink.FormatPNG) {
			data, err = renderGraphviz(ctx, g, format, opts.graphviz)
		} else {
			data, err = sink.Encode(ctx, renderer, g, format)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		if err := os.WriteFile(paths[i], data, 0o644); err != nil {
			return err
		}
	}

	arcs, _ := g.ArcCount()
	printSuccess("Rendered sequence graph")
	printStats(g.NodeCount(), g.EdgeCount(), arcs)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// renderGraphviz draws g through its DOT export with a Graphviz engine.
func renderGraphviz(ctx context.Context, g *graph.Graph, format, engine string) ([]byte, error) {
	src, err := dot.Export(g)
	if err != nil {
		return nil, err
	}
	if format == sink.FormatPNG {
		return dot.RenderPNG(ctx, src, engine)
	}
	return dot.RenderSVG(ctx, src, engine)
}

// readGraphFile loads a graph written by the dot or json format.
func readGraphFile(path string) (*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return graph.ReadGraphFile(path)
	case ".dot", ".gv":
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return dot.Import(src)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat,
		"cannot read graph from %s: use a .dot, .gv or .json file", path)
}

// outputPaths names one file per format. A single format writes to output
// as given; several formats use output, or fallback when it is empty, as
// the base name.
func outputPaths(output, fallback string, formats []string) []string {
	base := output
	if base == "" {
		base = fallback
	}
	if len(formats) == 1 && output != "" {
		return []string{output}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + f
	}
	return paths
}
