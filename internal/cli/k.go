package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/control"
	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/session"
)

// kCommand creates the k command with get and set subcommands.
func (c *CLI) kCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k",
		Short: "Read or change the k-mer length",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current k",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			k, err := conn.engine.K(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, k)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <k>",
		Short: "Change k and persist it with the dataset",
		Long: `Change k and persist it with the dataset.

The value must be a whole number greater than 1 and no longer than the
longest sequence. Setting the current value again changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSetK(cmd.Context(), args[0])
		},
	})
	return cmd
}

func (c *CLI) runSetK(ctx context.Context, raw string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess := session.New(conn.engine)
	ctrl := control.New(sess, control.WithLogger(loggerFromContext(ctx)))
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	out := ctrl.ProposeK(ctx, raw)
	return reportOutcome(out, sess.View())
}

// reportOutcome prints a proposal result and turns rejections into errors
// so the exit status reflects them.
func reportOutcome(out control.Outcome, view session.View) error {
	switch {
	case out.State == control.Committed:
		printSuccess("k set to %d", out.K)
		printDetail("%d index rows", len(view.Rows))
		return nil
	case out.Reason == control.ReasonUnchanged:
		printInfo("k is already %d", out.K)
		return nil
	case out.Err != nil:
		printError("%s", view.Problem)
		return out.Err
	default:
		printError("%s", view.Problem)
		return errors.New(errors.ErrCodeInvalidInput, "%s", view.Problem)
	}
}
