package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/index"
)

// indexCommand creates the index command.
func (c *CLI) indexCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Print the k-mer index table at the current k",
		Long: `Print the k-mer index table at the current k.

K-mers found in a single sequence show "-". K-mers shared by several
sequences list one row per sequence with its occurrence count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIndex(cmd.Context(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}

func (c *CLI) runIndex(ctx context.Context, asJSON bool) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	prog := newProgress(loggerFromContext(ctx))
	t, err := conn.engine.IndexTable(ctx)
	if err != nil {
		return err
	}
	k, _ := conn.engine.K(ctx)
	prog.done("Built index", "k", k, "kmers", len(t))

	rows := index.Rows(t)
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	fmt.Fprintln(stdout, index.RenderTable(rows))
	printDetail("%d k-mers, %d rows", len(t), len(rows))
	return nil
}
