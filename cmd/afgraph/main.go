package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/internal/cli"
	"github.com/matzehuels/afgraph/pkg/errors"
)

// Exit statuses: 1 for failures, 2 for rejected input, 130 on interrupt.
const (
	exitFailure = 1
	exitInput   = 2
	exitSignal  = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err == nil {
		return
	}
	if stderrors.Is(err, context.Canceled) {
		os.Exit(exitSignal)
	}
	fmt.Fprintln(os.Stderr, "afgraph:", errors.UserMessage(err))
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidLocation:
		os.Exit(exitInput)
	}
	os.Exit(exitFailure)
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun != nil {
			return preRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
