package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/buildinfo"
)

// appName names the binary and its cache directory.
const appName = "afgraph"

// Log levels for main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Command groups shown in help output.
const (
	groupView  = "view"
	groupData  = "data"
	groupSetup = "setup"
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
	conn   connFlags
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel changes the logger level, e.g. after parsing --verbose.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Explore alignment-free sequence graphs",
		Long: `afgraph opens a sequence dataset (a FASTA file or a MongoDB database),
builds its k-mer index and the graph of containment, shared k-mer and overlap
relations between sequences, and lets you explore both while tuning k.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger.WithPrefix(cmd.Name())))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	c.conn.register(root)

	root.AddGroup(
		&cobra.Group{ID: groupView, Title: "Viewers:"},
		&cobra.Group{ID: groupData, Title: "Dataset commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	add := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}
	add(groupView, c.tuiCommand(), c.serveCommand())
	add(groupData, c.renderCommand(), c.indexCommand(), c.kCommand(), c.importCommand())
	add(groupSetup, c.cacheCommand(), c.completionCommand())
	root.SetHelpCommandGroupID(groupSetup)

	return root
}

// cacheDir returns $XDG_CACHE_HOME/afgraph, or ~/.cache/afgraph.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
