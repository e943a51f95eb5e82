package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for afgraph.

To load completions:

Bash:
  $ source <(afgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ afgraph completion bash > /etc/bash_completion.d/afgraph
  # macOS:
  $ afgraph completion bash > $(brew --prefix)/etc/bash_completion.d/afgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ afgraph completion zsh > "${fpath[1]}/_afgraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ afgraph completion fish | source

  # To load completions for each session, execute once:
  $ afgraph completion fish > ~/.config/fish/completions/afgraph.fish

PowerShell:
  PS> afgraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> afgraph completion powershell > afgraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}

	return cmd
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
