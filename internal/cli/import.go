package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/engine/fasta"
	"github.com/matzehuels/afgraph/pkg/engine/mongostore"
	"github.com/matzehuels/afgraph/pkg/errors"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file.fa>",
		Short: "Load a FASTA file into a MongoDB dataset",
		Long: `Load a FASTA file into the MongoDB dataset given by --location and
--database. Records are upserted by ID; --replace removes records that are
not in the file.`,
		Example: `  afgraph import reads.fa -l mongodb://localhost:27017 -d genomes`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], replace)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "remove records missing from the file")
	return cmd
}

func (c *CLI) runImport(ctx context.Context, path string, replace bool) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig(logger)
	if err != nil {
		return err
	}
	if !cfg.Connection.IsMongo() {
		return errors.New(errors.ErrCodeInvalidLocation, "import needs a MongoDB location, got %q", cfg.Connection.Location)
	}

	seqs, err := fasta.ParseFile(path)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Importing...")
	spinner.Start()
	store, err := mongostore.Connect(ctx, mongostore.Config{
		Location: cfg.Connection.Location,
		Database: cfg.Connection.Database,
		Username: cfg.Connection.Username,
		Password: cfg.Connection.Password,
	})
	if err != nil {
		spinner.Stop()
		return err
	}
	defer store.Close(context.Background())

	prog := newProgress(logger)
	changed, err := store.Import(ctx, seqs, replace)
	if err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	total, err := store.Count(ctx)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Imported sequences", "records", len(seqs))

	printSuccess("Imported %d records (%d changed)", len(seqs), changed)
	printKeyValue("Dataset", store.Scope())
	printKeyValue("Sequences", StyleHighlight.Render(strconv.FormatInt(total, 10)))
	printNextStep("Explore it", "afgraph tui -l "+cfg.Connection.Location+" -d "+cfg.Connection.Database)
	return nil
}
